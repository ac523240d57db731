package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/andrebq/msgboard/internal/logutil"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 30 * time.Second
)

// Serve listens on bind and serves handler until ctx is cancelled
func Serve(ctx context.Context, bind string, handler http.Handler) error {
	lst, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}
	return ServeListener(ctx, lst, handler)
}

// ServeListener serves handler on lst, when ctx is done the server
// stops accepting connections and waits for in-flight requests.
func ServeListener(ctx context.Context, lst net.Listener, handler http.Handler) error {
	log := logutil.GetOrDefault(ctx).With().Str("server.addr", lst.Addr().String()).Logger()
	server := &http.Server{
		Handler:           handler,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute * 5,
		BaseContext: func(net.Listener) context.Context {
			return logutil.WithLogger(context.Background(), log)
		},
	}
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Msg("Starting HTTP server")
		err := server.Serve(lst)
		if errors.Is(err, http.ErrServerClosed) {
			log.Info().Msg("Server closed")
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Initiating shutdown process")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		log.Info().Msg("Shutdown completed")
		return err
	})
	return group.Wait()
}
