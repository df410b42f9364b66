package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/battlesnakeio/termsnake/api"
	"github.com/battlesnakeio/termsnake/store"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	apiListen          = ":3005"
	serveBackend       = "file"
	serveBackendArgs   = ""
	serveShutdownGrace = 5 * time.Second
)

func init() {
	serveCmd.Flags().StringVarP(&apiListen, "listen", "l", apiListen, "api address to listen on")
	serveCmd.Flags().StringVarP(&serveBackend, "backend", "b", serveBackend, "store backend, as one of: [inmem, file, redis, sql]")
	serveCmd.Flags().StringVarP(&serveBackendArgs, "backend-args", "a", serveBackendArgs, "options to pass to the backend being used")
}

var serveCmd = &cobra.Command{
	Use:    "serve",
	Short:  "serves recorded games over http and websockets",
	PreRun: func(c *cobra.Command, args []string) { prometheus() },
	Run: func(c *cobra.Command, args []string) {
		s, err := openStore(serveBackend, serveBackendArgs)
		if err != nil {
			log.WithError(err).WithField("backend", serveBackend).Fatal("unable to start up backend store")
		}
		if s == nil {
			s = store.InstrumentStore(store.InMemStore())
		}
		defer closeStore(s)

		srv := api.New(apiListen, s)
		go func() {
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			ctx, cancel := context.WithTimeout(context.Background(), serveShutdownGrace)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.WithError(err).Error("unable to shut down api server")
			}
		}()

		log.WithField("listen", apiListen).WithField("backend", serveBackend).Info("snake api serving")
		if err := srv.WaitForExit(); err != nil {
			log.WithError(err).
				WithField("listen", apiListen).
				Fatal("api server failed")
		}
	},
}
