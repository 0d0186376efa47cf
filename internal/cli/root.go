// Package cli implements dronectl, the terminal front end of the drone gallery
package cli

import (
	"context"
	"strconv"
	"time"

	appconfig "github.com/UnendingLoop/DroneGallery/internal/config"
	"github.com/UnendingLoop/DroneGallery/internal/imageapi"
	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/UnendingLoop/DroneGallery/internal/mwlogger"
	"github.com/UnendingLoop/DroneGallery/internal/service"
	"github.com/UnendingLoop/DroneGallery/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/helpers"
	"github.com/wb-go/wbf/zlog"
)

// flagSource reads settings through wbf/config like the web server does; flags set on the command line win
type flagSource struct {
	*config.Config
	overrides map[string]string
	durations map[string]time.Duration
}

func newFlagSource() flagSource {
	cfg := config.New()
	cfg.EnableEnv("")
	return flagSource{Config: cfg, overrides: map[string]string{}, durations: map[string]time.Duration{}}
}

func (s flagSource) GetString(key string) string {
	if v, ok := s.overrides[key]; ok {
		return v
	}
	if d, ok := s.durations[key]; ok {
		return d.String()
	}
	return s.Config.GetString(key)
}

func (s flagSource) GetDuration(key string) time.Duration {
	if d, ok := s.durations[key]; ok {
		return d
	}
	return s.Config.GetDuration(key)
}

type app struct {
	backend  string
	lang     string
	mode     string
	fixed    int
	timeout  time.Duration
	logLevel string

	cfg    *appconfig.AppConfig
	client *imageapi.Client
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "dronectl",
		Short: "Terminal front end for the drone photo gallery",
		Long: `dronectl lists, uploads, deletes and downloads drone photos stored in the
remote image service. It shares the gallery store with the web UI, so every
mutation is followed by a full reload of the photo list.

Settings come from the environment (or a .env file) and can be overridden by flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.backend, "backend", "", "Image service address, host:port or URL (env BACKEND_ADDR)")
	cmd.PersistentFlags().StringVar(&a.lang, "lang", "", "Message language, ko or en (env UI_LANG)")
	cmd.PersistentFlags().StringVar(&a.mode, "mode", "", "Upload mode, basic or extended (env UPLOAD_MODE)")
	cmd.PersistentFlags().IntVar(&a.fixed, "fixed-location", 0, "Always send this location id on upload, 0 disables (env FIXED_LOCATION_ID)")
	cmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "Request timeout like 30s, 0 means none (env BACKEND_TIMEOUT)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "error", "Log level")

	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newUploadCmd(a))
	cmd.AddCommand(newDeleteCmd(a))
	cmd.AddCommand(newFetchCmd(a))

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	src := newFlagSource()
	flags := cmd.Flags()
	if flags.Changed("backend") {
		src.overrides["BACKEND_ADDR"] = a.backend
	}
	if flags.Changed("lang") {
		src.overrides["UI_LANG"] = a.lang
	}
	if flags.Changed("mode") {
		src.overrides["UPLOAD_MODE"] = a.mode
	}
	if flags.Changed("fixed-location") {
		src.overrides["FIXED_LOCATION_ID"] = strconv.Itoa(a.fixed)
	}
	if flags.Changed("timeout") {
		src.durations["BACKEND_TIMEOUT"] = a.timeout
	}

	cfg, err := appconfig.Load(src)
	if err != nil {
		return err
	}

	zlog.InitConsole()
	if err := zlog.SetLevel(a.logLevel); err != nil {
		return err
	}

	client, err := imageapi.NewClient(cfg.BackendAddr, cfg.BackendTimeout)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.client = client
	return nil
}

func (a *app) messages() model.Messages {
	return model.MessagesFor(a.cfg.Lang)
}

// gallery builds the store for one command run; staged files live in memory
func (a *app) gallery() *service.GalleryService {
	return service.NewGalleryService(a.client, storage.NewMemoryStorage(), service.NoopPublisher{}, service.Options{
		Mode:          a.cfg.UploadMode,
		FixedLocation: a.cfg.FixedLocation,
		Messages:      a.messages(),
		SessionID:     "cli",
	})
}

// commandContext carries a logger tagged with a run id, like a web request
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := zlog.Logger.With().
		Str("run_id", helpers.CreateUUID()).
		Str("command", cmd.Name()).
		Logger()
	return mwlogger.WithLogger(ctx, logger)
}
