package metrics

import "github.com/prometheus/client_golang/prometheus"

// FunnelMetrics exposes counters for the sales funnel flows.
type FunnelMetrics struct {
	inboundTotal   *prometheus.CounterVec
	leadsTotal     prometheus.Counter
	remindersTotal prometheus.Counter
}

func NewFunnelMetrics(reg prometheus.Registerer) *FunnelMetrics {
	m := &FunnelMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zenvy",
			Subsystem: "funnel",
			Name:      "inbound_messages_total",
			Help:      "Total inbound messages by resulting stage and outcome",
		}, []string{"stage", "outcome"}),
		leadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zenvy",
			Subsystem: "funnel",
			Name:      "leads_recorded_total",
			Help:      "Total paid leads appended to the ledger",
		}),
		remindersTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zenvy",
			Subsystem: "sweeper",
			Name:      "reminders_sent_total",
			Help:      "Total follow-up reminders sent to stale sessions",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.leadsTotal, m.remindersTotal)
	return m
}

func (m *FunnelMetrics) ObserveInbound(stage, outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(stage, outcome).Inc()
}

func (m *FunnelMetrics) ObserveLeadRecorded() {
	if m == nil {
		return
	}
	m.leadsTotal.Inc()
}

func (m *FunnelMetrics) ObserveReminderSent() {
	if m == nil {
		return
	}
	m.remindersTotal.Inc()
}
