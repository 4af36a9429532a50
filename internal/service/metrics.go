package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"account-service/internal/domain"
)

type Metrics struct {
	logins *prometheus.CounterVec
	ops    *prometheus.CounterVec
}

// NewMetrics reg 为 nil 时不注册（测试/工具场景）
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "account_login_total", Help: "Login attempts by result"},
			[]string{"result"},
		),
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "account_operations_total", Help: "Account use cases by operation and result"},
			[]string{"op", "result"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.logins, m.ops)
	}
	return m
}

func (m *Metrics) login(err error) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(resultLabel(err)).Inc()
}

func (m *Metrics) op(op string, err error) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrEmptyUpdate):
		return "empty_update"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate_email"
	case errors.Is(err, domain.ErrSuperadminProtected):
		return "superadmin_protected"
	case errors.Is(err, domain.ErrAlreadyPrivileged):
		return "already_privileged"
	case errors.Is(err, domain.ErrNotAdmin):
		return "not_admin"
	case errors.Is(err, domain.ErrSelfPrivilegeChange):
		return "self_privilege_change"
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	}
	return "error"
}
