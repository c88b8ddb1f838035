package fleet

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Serve runs the API on addr until ctx is canceled.
func (h *Handler) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.Router(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			h.log.Errorf("api shutdown: %v", err)
		}
		cancel()
	}()
	h.log.Infof("serving api on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
