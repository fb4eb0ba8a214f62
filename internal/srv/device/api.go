package device

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jypelle/adcmon/apimodel"
	"github.com/jypelle/adcmon/internal/srv/config"
	"github.com/jypelle/adcmon/internal/tool"
	"github.com/sirupsen/logrus"
)

type StatusProvider interface {
	Status() apimodel.Status
}

type FrameProvider interface {
	LastImage() image.Image
}

// Api is the read-only HTTPS monitoring endpoint.
type Api struct {
	router    *mux.Router
	apiRouter *mux.Router
	server    *http.Server

	config *config.ServerConfig
	status StatusProvider
	frames FrameProvider
}

func NewApi(config *config.ServerConfig, status StatusProvider, frames FrameProvider) *Api {
	api := Api{
		config: config,
		status: status,
		frames: frames,
	}

	api.router = mux.NewRouter().StrictSlash(false)

	api.apiRouter = api.router.PathPrefix("/api").Subrouter()
	api.apiRouter.NotFoundHandler = http.HandlerFunc(ErrorNotFoundAction)
	api.apiRouter.MethodNotAllowedHandler = http.HandlerFunc(ErrorMethodNotAllowedAction)

	// Auth middleware
	api.apiRouter.Use(
		func(handler http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if rec := recover(); rec != nil {
						logrus.Warningf("recovered from panic : [%v] - stack trace : \n [%s]", rec, debug.Stack())
						ErrorMessageAction(w, fmt.Sprintf("%v", rec), http.StatusInternalServerError)
					}
				}()

				// Check API Key
				if r.Header.Get("x-api-key") != config.ApiParam.ApiKey {
					ErrorStatusAction(w, r, http.StatusForbidden)
					return
				}

				logrus.Debugf("PATH: %s %s", r.Host, r.URL.Path)

				handler.ServeHTTP(w, r)
			})
		})

	api.apiRouter.HandleFunc("/is_alive",
		func(w http.ResponseWriter, r *http.Request) {
			ErrorStatusAction(w, r, http.StatusOK)
		}).Methods("GET")
	api.apiRouter.HandleFunc("/status", api.statusAction).Methods("GET")
	api.apiRouter.HandleFunc("/frame.png", api.frameAction).Methods("GET")

	headersOk := handlers.AllowedHeaders([]string{"x-api-key"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "OPTIONS"})

	api.server = &http.Server{
		Addr:         ":" + strconv.FormatInt(config.ApiParam.SslPort, 10),
		Handler:      handlers.CompressHandler(handlers.CORS(originsOk, headersOk, methodsOk)(api.router)),
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 240,
	}

	return &api
}

func (d *Api) Start() error {
	logrus.Infof("Start api device")

	err := tool.EnsureTlsCertificate(
		"jypelle",
		"Adcmon Server",
		d.config.GetCompleteKeyFilename(),
		d.config.GetCompleteCertFilename(),
		[]string{})
	if err != nil {
		return fmt.Errorf("unable to prepare cert and key files: %w", err)
	}

	// Launch https server
	go func() {
		err := d.server.ListenAndServeTLS(d.config.GetCompleteCertFilename(), d.config.GetCompleteKeyFilename())
		if err != nil && err != http.ErrServerClosed {
			logrus.Error(err)
		}
	}()
	return nil
}

func (d *Api) Stop() {
	logrus.Infof("Stop api device")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.server.Shutdown(ctx); err != nil {
		logrus.Warnf("Unable to shutdown api server: %v", err)
	}
}

func (d *Api) statusAction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(d.status.Status()); err != nil {
		logrus.Warnf("Unable to encode status: %v", err)
	}
}

func (d *Api) frameAction(w http.ResponseWriter, r *http.Request) {
	img := d.frames.LastImage()
	gray := image.NewGray(img.Bounds())
	draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, gray); err != nil {
		logrus.Warnf("Unable to encode frame: %v", err)
	}
}

func ErrorNotFoundAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusNotFound)
}

func ErrorMethodNotAllowedAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusMethodNotAllowed)
}

func ErrorStatusAction(w http.ResponseWriter, r *http.Request, status int) {
	ErrorMessageAction(w, "", status)
}

func ErrorMessageAction(w http.ResponseWriter, message string, status int) {
	apimodel.NewErrorMessage(status, message).Send(w)
}
