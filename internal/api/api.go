package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/tcfw/starregistry/internal/node"
)

type APIHandler interface {
	Setup(*Api, *mux.Router) error
}

var (
	reg = []func() APIHandler{}
)

type BaseHandler struct {
	a *Api
}

type Api struct {
	n   *node.Node
	r   *mux.Router
	srv *http.Server
}

func NewAPI(n *node.Node) (*Api, error) {
	a := &Api{
		n: n,
		r: newRouter(),
	}

	for _, newHandler := range reg {
		if err := newHandler().Setup(a, a.r); err != nil {
			return nil, errors.Wrap(err, "registering service")
		}
	}

	a.srv = &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// Handler is the full middleware wrapped route table
func (a *Api) Handler() http.Handler {
	return recoverer(a.n.Logger(), requestLogger(a.n.Logger(), a.r))
}

func (a *Api) ListenAndServe(l net.Addr) error {
	lis, err := net.Listen("tcp", l.String())
	if err != nil {
		return err
	}

	if err := a.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (a *Api) Shutdown(ctx context.Context) error {
	return a.srv.Shutdown(ctx)
}
