package cfg

type Cfg struct {
	// Base (remote tabular store) configuration
	AppID     string
	AppSecret string
	BaseToken string
	TableID   string
	APIBase   string

	// Feed sources
	Feeds    []string
	FeedsDir string

	// AI summarization (optional)
	AIAPIKey  string
	AIAPIBase string
	AIModel   string

	// Notification webhook (optional)
	NotifyWebhookURL string

	// Application configuration
	Port         string
	APIAccessKey string
	SyncInterval int
	Timeout      int
	Once         bool

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
