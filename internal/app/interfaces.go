package app

import (
	evbus "github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"github.com/storeops/storeconsole/config"
	"github.com/storeops/storeconsole/internal/backend"
	"github.com/storeops/storeconsole/internal/integrity"
	"github.com/storeops/storeconsole/internal/view"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// BackendProvider provides the resource service clients
type BackendProvider interface {
	Products() *backend.ProductClient
	Orders() *backend.OrderClient
}

// IntegrityProvider provides the referential guard and the deletion
// coordinator built on it
type IntegrityProvider interface {
	Guard() *integrity.Guard
	Coordinator() *integrity.Coordinator
}

// ViewProvider provides the consistency view refresher
type ViewProvider interface {
	Refresher() *view.Refresher
}

// BusProvider provides the process event bus
type BusProvider interface {
	Bus() evbus.Bus
	NotifyMutation(resource, action string)
}

// HealthProvider provides the latest backend probe results
type HealthProvider interface {
	BackendHealth() map[string]ProbeStatus
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines the provider interfaces for full application context.
// Handlers should depend on the narrowest provider that serves them.
type AppContext interface {
	ConfigProvider
	BackendProvider
	IntegrityProvider
	ViewProvider
	BusProvider
	HealthProvider
	SchedulerProvider
}
