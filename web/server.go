// Package web is the JSON API used by the in-store ordering page.
package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"coffeeshop/models"
	"coffeeshop/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderSession  = "X-Session-ID"
	HeaderCustomer = "X-Customer-ID"

	ctxSession  = "session"
	ctxCustomer = "customer"
)

type StatsReader interface {
	GetDailyStats(ctx context.Context, date string) (*models.DailyStats, error)
}

type Deps struct {
	Menu      services.MenuCatalog
	Customers services.CustomerDirectory
	Stats     StatsReader
	Sessions  *services.Sessions
	Pipeline  *services.OrderPipeline
	Favorites *services.Favorites
	Tables    int
}

type Server struct {
	deps Deps
	log  zerolog.Logger
}

func New(deps Deps, log zerolog.Logger) *Server {
	return &Server{deps: deps, log: log.With().Str("component", "http").Logger()}
}

// Handler returns the gin engine with every route registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/", s.withCustomer())
	api.GET("/menu", s.listMenu)
	api.GET("/favorites", s.listFavorites)
	api.POST("/favorites/:id/toggle", s.toggleFavorite)
	api.GET("/admin/stats", s.dailyStats)

	// only cart routes open a session
	cart := api.Group("/", s.withSession())
	cart.GET("/cart", s.getCart)
	cart.POST("/cart/items", s.addCartItem)
	cart.PUT("/cart/items/:id", s.setCartQuantity)
	cart.DELETE("/cart/items/:id", s.removeCartItem)
	cart.DELETE("/cart", s.clearCart)
	cart.PUT("/cart/delivery", s.setDelivery)
	cart.POST("/checkout", s.checkout)
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

// withSession binds the request to a session, minting an id when the client has none.
func (s *Server) withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderSession)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(HeaderSession, id)
		c.Set(ctxSession, s.deps.Sessions.Get("web:"+id))
		c.Next()
	}
}

// withCustomer resolves X-Customer-ID. No header means an anonymous guest.
func (s *Server) withCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderCustomer)
		if raw == "" {
			c.Next()
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			abortError(c, http.StatusUnauthorized, "invalid customer id")
			return
		}
		cust, err := s.deps.Customers.GetCustomer(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				abortError(c, http.StatusUnauthorized, "unknown customer")
				return
			}
			s.log.Error().Err(err).Int64("customer_id", id).Msg("lookup customer")
			abortError(c, http.StatusBadGateway, "customer lookup failed")
			return
		}
		c.Set(ctxCustomer, cust)
		c.Next()
	}
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func session(c *gin.Context) *services.Session {
	return c.MustGet(ctxSession).(*services.Session)
}

// customer is nil for anonymous requests.
func customer(c *gin.Context) *models.Customer {
	v, ok := c.Get(ctxCustomer)
	if !ok {
		return nil
	}
	return v.(*models.Customer)
}

func (s *Server) dailyStats(c *gin.Context) {
	switch err := services.Authorize(customer(c), models.ActionViewStats); {
	case errors.Is(err, services.ErrUnauthenticated):
		abortError(c, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		abortError(c, http.StatusForbidden, err.Error())
		return
	}
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	st, err := s.deps.Stats.GetDailyStats(c.Request.Context(), date)
	if err != nil {
		if services.IsValidation(err) {
			abortError(c, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Str("date", date).Msg("daily stats")
		abortError(c, http.StatusInternalServerError, "stats unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":           date,
		"orders_count":   st.OrdersCount,
		"revenue":        st.Revenue.StringFixed(2),
		"items_sold":     st.ItemsSold,
		"points_awarded": st.PointsAwarded,
	})
}
