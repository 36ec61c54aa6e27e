package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnavshah/timetable-api-go/pkg/config"
	"github.com/arnavshah/timetable-api-go/pkg/logger"
	"github.com/arnavshah/timetable-api-go/pkg/router"
)

var (
	once    sync.Once
	engine  http.Handler
	initErr error
)

func setup() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}

	log, err := logger.New(cfg)
	if err != nil {
		log = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	h, err := router.Build(cfg, log)
	if err != nil {
		log.Error("initialize handlers", zap.Error(err))
		initErr = err
		return
	}
	engine = router.New(h, "Timetable API (serverless)")
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	if initErr != nil {
		http.Error(w, "service unavailable: "+initErr.Error(), http.StatusServiceUnavailable)
		return
	}
	engine.ServeHTTP(w, r)
}
