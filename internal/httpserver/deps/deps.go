package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quillcms/console/internal/logger"
	"github.com/quillcms/console/internal/media"
	"github.com/quillcms/console/internal/notify"
	"github.com/quillcms/console/internal/resource"
	"github.com/quillcms/console/internal/search"
	"github.com/quillcms/console/internal/session"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	AllowedHosts []string // Host headers allowed to access the server (empty = all)
	AllowedCIDRS []string // IPs/CIDRs allowed on the admin surface (empty = all)
	TrustProxy   bool     // true if running behind a trusted reverse proxy

	Registry *resource.Registry // per-collection optimistic managers
	Searcher *search.Searcher
	Palettes *search.Palettes
	History  search.History
	Media    *media.Service
	Sessions *session.Manager
	Notify   *notify.Center

	RedisClient   *redis.Client // for readiness probing
	CatalogFile   string        // path to collections.yaml, for the infra view
	ReloadTrigger chan struct{} // manual catalog reload
}
