package server

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/valyala/fasthttp"
)

const (
	apiPrefix          = "/api/v1/"
	defaultCalcTimeout = 30 * time.Second
)

// route binds one API path to a request section and the part of the report it returns.
type route struct {
	section string
	bind    func(body []byte) (*domain.Request, error)
	pick    func(*domain.Report) any
}

// bindSection decodes the body as one section of a request.
func bindSection[T any](set func(*domain.Request, *T)) func([]byte) (*domain.Request, error) {
	return func(body []byte) (*domain.Request, error) {
		v := new(T)
		if err := json.Unmarshal(body, v); err != nil {
			return nil, err
		}
		req := &domain.Request{}
		set(req, v)
		return req, nil
	}
}

func (s *Server) apiRoutes() map[string]route {
	routes := []route{
		{"spia",
			bindSection(func(r *domain.Request, v *domain.SPIARequest) { r.SPIA = v }),
			func(rep *domain.Report) any { return rep.SPIA }},
		{"withdrawal",
			bindSection(func(r *domain.Request, v *domain.WithdrawalRequest) { r.Withdrawal = v }),
			func(rep *domain.Report) any { return rep.Withdrawals }},
		{"red-flags",
			bindSection(func(r *domain.Request, v *domain.AnnuityContract) { r.RedFlags = v }),
			func(rep *domain.Report) any { return rep.RedFlags }},
		{"fire",
			bindSection(func(r *domain.Request, v *domain.FIREInput) { r.FIRE = v }),
			func(rep *domain.Report) any { return rep.FIRE }},
		{"refinance",
			bindSection(func(r *domain.Request, v *domain.RefinanceInput) { r.Refinance = v }),
			func(rep *domain.Report) any { return rep.Refinance }},
		{"tax",
			bindSection(func(r *domain.Request, v *domain.TaxRequest) { r.Tax = v }),
			func(rep *domain.Report) any { return rep.Tax }},
		{"rmd",
			bindSection(func(r *domain.Request, v *domain.RMDRequest) { r.RMD = v }),
			func(rep *domain.Report) any { return rep.RMD }},
		{"pia",
			bindSection(func(r *domain.Request, v *domain.PIARequest) { r.PIA = v }),
			func(rep *domain.Report) any {
				return struct {
					*domain.PIAResult
					Claiming *domain.ClaimingAdjustment `json:"claiming,omitempty"`
				}{rep.PIA, rep.Claiming}
			}},
		{"estate",
			bindSection(func(r *domain.Request, v *domain.EstateRequest) { r.Estate = v }),
			func(rep *domain.Report) any { return rep.Estate }},
		{"roth",
			bindSection(func(r *domain.Request, v *domain.RothRequest) { r.Roth = v }),
			func(rep *domain.Report) any { return rep.Roth }},
		{"simulate",
			bindSection(func(r *domain.Request, v *domain.SimulationConfig) { r.Simulation = v }),
			func(rep *domain.Report) any { return rep.Simulation }},
		{"guardrails",
			bindSection(func(r *domain.Request, v *domain.GuardrailsRequest) { r.Guardrails = v }),
			func(rep *domain.Report) any { return rep.Guardrails }},
		{"compare",
			bindSection(func(r *domain.Request, v *domain.ComparisonRequest) { r.Comparison = v }),
			func(rep *domain.Report) any { return rep.Comparison }},
		{"calculate",
			func(body []byte) (*domain.Request, error) {
				req := &domain.Request{}
				if err := json.Unmarshal(body, req); err != nil {
					return nil, err
				}
				return req, nil
			},
			func(rep *domain.Report) any { return rep }},
	}

	out := make(map[string]route, len(routes))
	for _, r := range routes {
		out[apiPrefix+r.section] = r
	}
	return out
}

func (s *Server) handleCalculation(ctx *fasthttp.RequestCtx, r route) {
	req, err := r.bind(ctx.PostBody())
	if err != nil {
		s.metrics.observeCalculation(r.section, err)
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.parser.Validate(req); err != nil {
		s.metrics.observeCalculation(r.section, err)
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	timeout := s.settings.WriteTimeout
	if timeout <= 0 {
		timeout = defaultCalcTimeout
	}
	calcCtx, cancel := context.WithTimeout(s.base, timeout)
	defer cancel()

	report, err := s.engine.Calculate(calcCtx, req)
	s.metrics.observeCalculation(r.section, err)
	if err != nil {
		s.logger.Warnw("calculation failed", "section", r.section, "error", err)
		writeError(ctx, statusFor(err), err.Error())
		return
	}
	if report.Simulation != nil {
		s.metrics.simulationPaths.Add(float64(report.Simulation.Paths))
	}
	writeJSON(ctx, fasthttp.StatusOK, r.pick(report))
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnknownEnum),
		errors.Is(err, domain.ErrUnsupportedTaxYear):
		return fasthttp.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fasthttp.StatusServiceUnavailable
	default:
		return fasthttp.StatusInternalServerError
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "encode response: "+err.Error())
		return
	}
	ctx.SetContentType(contentTypeJSON)
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(ErrorResponse{Status: status, Message: message})
	ctx.SetContentType(contentTypeJSON)
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
