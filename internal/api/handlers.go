// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/netplus-lab/netplus/internal/i18n"
	"github.com/netplus-lab/netplus/internal/netcalc"
	"github.com/netplus-lab/netplus/internal/scoring"
	"github.com/netplus-lab/netplus/internal/troubleshoot"
	"github.com/netplus-lab/netplus/internal/validation"
)

// prefixFromQuery accepts ?cidr=a.b.c.d/n or ?ip=a.b.c.d&mask=m, where m is
// a prefix length or dotted mask.
func prefixFromQuery(r *http.Request) (netcalc.Prefix, error) {
	q := r.URL.Query()
	if cidr := strings.TrimSpace(q.Get("cidr")); cidr != "" {
		return netcalc.ParsePrefix(cidr)
	}
	ip, err := netcalc.ParseAddr(strings.TrimSpace(q.Get("ip")))
	if err != nil {
		return netcalc.Prefix{}, err
	}
	bits, err := netcalc.ParseMask(q.Get("mask"))
	if err != nil {
		return netcalc.Prefix{}, err
	}
	return netcalc.Prefix{Addr: ip, Bits: bits}, nil
}

// SubnetResponse adds the addressed host to the subnet facts.
type SubnetResponse struct {
	netcalc.Subnet
	Address string `json:"address"`
	Binary  struct {
		Address string `json:"address"`
		Mask    string `json:"mask"`
	} `json:"binary"`
}

func (s *Server) handleSubnet(w http.ResponseWriter, r *http.Request) {
	p, err := prefixFromQuery(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := SubnetResponse{Subnet: netcalc.Calculate(p), Address: p.Addr.String()}
	resp.Binary.Address = p.Addr.Binary()
	resp.Binary.Mask = p.Mask().Binary()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	p, err := prefixFromQuery(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	q := r.URL.Query()
	var subnets []netcalc.Subnet
	switch {
	case q.Get("prefix") != "":
		bits, perr := strconv.Atoi(strings.TrimPrefix(q.Get("prefix"), "/"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid_prefix", "prefix must be a number")
			return
		}
		subnets, err = netcalc.Split(p, bits)
	case q.Get("count") != "":
		n, cerr := strconv.Atoi(q.Get("count"))
		if cerr != nil {
			writeError(w, http.StatusBadRequest, "invalid_requirement", "count must be a number")
			return
		}
		subnets, err = netcalc.SplitCount(p, n)
	default:
		writeError(w, http.StatusBadRequest, "missing_parameter", "prefix or count is required")
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"base": p.Masked().String(), "subnets": subnets})
}

// VLSMRequest is the body of POST /api/v1/vlsm.
type VLSMRequest struct {
	Base         string                `json:"base"`
	Requirements []netcalc.Requirement `json:"requirements"`
	Save         bool                  `json:"save"`
	Name         string                `json:"name"`
}

// VLSMResponse carries the plan, its efficiency and the saved design ID.
type VLSMResponse struct {
	Plan     netcalc.Plan         `json:"plan"`
	Score    scoring.DesignResult `json:"score"`
	DesignID string               `json:"design_id,omitempty"`
}

func (s *Server) handleVLSM(w http.ResponseWriter, r *http.Request) {
	var req VLSMRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	base, err := netcalc.ParsePrefix(req.Base)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	plan, err := netcalc.AllocateVLSM(base, req.Requirements)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := VLSMResponse{Plan: plan, Score: scoring.Design(plan)}
	if req.Save {
		if s.progress == nil {
			writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "progress storage is not configured")
			return
		}
		d, err := s.progress.SaveDesign(r.Context(), req.Name, plan)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp.DesignID = d.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prefixes []string `json:"prefixes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Prefixes) == 0 {
		writeError(w, http.StatusBadRequest, "missing_parameter", "prefixes must not be empty")
		return
	}
	ps := make([]netcalc.Prefix, 0, len(req.Prefixes))
	for _, raw := range req.Prefixes {
		p, err := netcalc.ParsePrefix(raw)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		ps = append(ps, p)
	}
	sum, err := netcalc.Summarize(ps)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": sum, "subnet": netcalc.Calculate(sum)})
}

// ValidateResponse reports a single validation outcome. Invalid values are
// a normal answer, so the status stays 200.
type ValidateResponse struct {
	Kind    string `json:"kind"`
	Value   string `json:"value"`
	Valid   bool   `json:"valid"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	value := r.URL.Query().Get("value")
	resp := ValidateResponse{Kind: kind, Value: value, Valid: true}
	if err := validation.ByKind(kind, value); err != nil {
		var verr *validation.Error
		if !errors.As(err, &verr) {
			writeDomainError(w, err)
			return
		}
		if verr.Code == "validation.kind.unknown" {
			writeError(w, http.StatusNotFound, verr.Code, verr.Message())
			return
		}
		resp.Valid, resp.Code, resp.Message = false, verr.Code, verr.Message()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidateKinds(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"kinds": validation.Kinds()})
}

// FindingView is a finding with its localized message.
type FindingView struct {
	troubleshoot.Finding
	Message string `json:"message"`
}

// DiagnoseResponse lists every finding and the primary issue.
type DiagnoseResponse struct {
	Primary  troubleshoot.Issue `json:"primary"`
	Findings []FindingView      `json:"findings"`
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	var cfg troubleshoot.HostConfig
	if !decodeJSON(w, r, &cfg) {
		return
	}
	findings := troubleshoot.Diagnose(cfg)
	resp := DiagnoseResponse{Primary: troubleshoot.Primary(findings), Findings: make([]FindingView, 0, len(findings))}
	for _, f := range findings {
		resp.Findings = append(resp.Findings, FindingView{Finding: f, Message: i18n.T(f.Issue.MessageID(), f.Value)})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	type view struct {
		ID         string                  `json:"id"`
		Title      string                  `json:"title"`
		Difficulty int                     `json:"difficulty"`
		Host       troubleshoot.HostConfig `json:"host"`
	}
	var out []view
	for _, sc := range troubleshoot.Scenarios() {
		out = append(out, view{ID: sc.ID, Title: i18n.T(sc.TitleID), Difficulty: sc.Difficulty, Host: sc.Host})
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": out})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if s.progress == nil {
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "progress storage is not configured")
		return
	}
	sum, err := s.progress.Summary(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

