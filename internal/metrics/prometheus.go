package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	LoginChallengesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "osm_auth_login_challenges_total",
		Help: "Total number of authorization URLs handed out.",
	})
	LoginSuccessTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "osm_auth_logins_success_total",
		Help: "Total number of successful OSM logins.",
	})
	LoginFailureTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "osm_auth_logins_failure_total",
		Help: "Total number of failed OSM logins by error sub code.",
	}, []string{"sub_code"})
	UserRegisteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "osm_auth_users_registered_total",
		Help: "Total number of local users created on first login.",
	})
	WelcomeMessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "osm_auth_welcome_messages_total",
		Help: "Total number of welcome messages by delivery result.",
	}, []string{"result"})
)

// InitCustomMetrics registers the service metrics with reg.
// It should be called once at application startup.
func InitCustomMetrics(reg prometheus.Registerer) {
	if reg == nil {
		log.Error().Msg("Prometheus registry is nil, cannot register custom metrics.")
		return
	}

	collectors := map[string]prometheus.Collector{
		"LoginChallengesTotal": LoginChallengesTotal,
		"LoginSuccessTotal":    LoginSuccessTotal,
		"LoginFailureTotal":    LoginFailureTotal,
		"UserRegisteredTotal":  UserRegisteredTotal,
		"WelcomeMessagesTotal": WelcomeMessagesTotal,
	}
	for name, c := range collectors {
		if err := reg.Register(c); err != nil {
			log.Warn().Err(err).Str("metric", name).Msg("Failed to register metric")
		}
	}
	log.Info().Msg("Custom Prometheus metrics registered.")
}
