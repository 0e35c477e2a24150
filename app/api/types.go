package api

import (
	"github.com/lysyi3m/rss-base-sync/app/feed"
	"github.com/lysyi3m/rss-base-sync/app/syncer"
)

type Handler struct {
	scheduler *syncer.Scheduler
	sources   []feed.Source
}
