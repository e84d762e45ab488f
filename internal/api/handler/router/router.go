package router

import (
	"net/http"
	"sort"

	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
)

var (
	WithRoutes = func(routes ...Route) ConfigRouter {
		return func(router *Router) {
			router.AddRoutes(routes...)
		}
	}
)

type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []func(http.Handler) http.Handler // Aplicados só nesta rota, antes do handler
}

type Router struct {
	router *httprouter.Router
	routes []string
}

type ConfigRouter func(router *Router)

// New monta o roteador. Rotas desconhecidas e métodos não suportados
// respondem no mesmo formato de erro da API.
func New(configs ...ConfigRouter) *Router {
	rt := httprouter.New()
	rt.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiErrors.WriteError(w, apiErrors.ErrRouteNotFound, "Rota não encontrada", r.URL.Path)
	})
	rt.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiErrors.WriteError(w, apiErrors.ErrMethodNotAllowed, "Método não suportado", r.Method)
	})

	router := &Router{router: rt}
	for _, config := range configs {
		config(router)
	}

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// AddRoutes registra as rotas envolvendo cada handler com seus middlewares,
// o primeiro da lista é o mais externo
func (r *Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		handler := route.Handler
		for i := len(route.Middlewares) - 1; i >= 0; i-- {
			handler = route.Middlewares[i](handler)
		}

		r.router.Handler(route.Method, route.Path, handler)
		r.routes = append(r.routes, route.Method+" "+route.Path)
	}
}

// Routes lista as rotas registradas em ordem alfabética
func (r *Router) Routes() []string {
	out := append([]string(nil), r.routes...)
	sort.Strings(out)
	return out
}
