package api

import (
	"github.com/PlayerLynx/AI-Study-Buddy/internal"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/ai"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/storage"
)

const (
	ServiceName    = "AI Study Buddy"
	ServiceVersion = "2.3.0"
)

type App interface {
	Logger() internal.Logger
	Store() storage.Store
	Responder() ai.Responder
}

type app struct {
	logger    internal.Logger
	store     storage.Store
	responder ai.Responder
}

func NewApp(logger internal.Logger, store storage.Store, responder ai.Responder) App {
	return &app{logger: logger, store: store, responder: responder}
}

func (a *app) Logger() internal.Logger { return a.logger }
func (a *app) Store() storage.Store    { return a.store }
func (a *app) Responder() ai.Responder { return a.responder }
