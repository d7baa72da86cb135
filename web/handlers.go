package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"coffeeshop/models"
	"coffeeshop/services"

	"github.com/gin-gonic/gin"
)

type menuItemJSON struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url,omitempty"`
	IsNew       bool   `json:"is_new"`
	Favorite    bool   `json:"favorite"`
}

type lineJSON struct {
	ItemID    string `json:"item_id,omitempty"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	LineTotal string `json:"line_total"`
}

type cartJSON struct {
	Items       []lineJSON `json:"items"`
	Subtotal    string     `json:"subtotal"`
	Total       string     `json:"total"`
	ItemCount   int        `json:"item_count"`
	TableNumber string     `json:"table_number"`
	Notes       string     `json:"notes"`
	Submitting  bool       `json:"submitting"`
}

type orderJSON struct {
	ID            string     `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	TableNumber   string     `json:"table_number"`
	Items         []lineJSON `json:"items"`
	Total         string     `json:"total"`
	Notes         string     `json:"notes"`
	PointsAwarded int64      `json:"points_awarded"`
}

func toCartJSON(v services.CartView) cartJSON {
	out := cartJSON{
		Items:       make([]lineJSON, 0, len(v.Lines)),
		Subtotal:    v.Subtotal,
		Total:       v.Total,
		ItemCount:   v.ItemCount,
		TableNumber: v.Delivery.TableID,
		Notes:       v.Delivery.Note,
		Submitting:  v.Submitting,
	}
	for _, l := range v.Lines {
		out.Items = append(out.Items, lineJSON{
			ItemID:    l.Item.ID,
			Name:      l.Item.Name,
			Quantity:  l.Quantity,
			Price:     l.Item.Price.StringFixed(2),
			LineTotal: l.LineTotal().StringFixed(2),
		})
	}
	return out
}

func toOrderJSON(o models.Order) orderJSON {
	out := orderJSON{
		ID:            o.ID,
		CreatedAt:     o.CreatedAt,
		TableNumber:   o.Delivery.TableID,
		Items:         make([]lineJSON, 0, len(o.Lines)),
		Total:         o.Total.StringFixed(2),
		Notes:         o.Delivery.Note,
		PointsAwarded: o.PointsAwarded,
	}
	for _, l := range o.Lines {
		out.Items = append(out.Items, lineJSON{
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice.StringFixed(2),
			LineTotal: l.LineTotal.StringFixed(2),
		})
	}
	return out
}

func (s *Server) listMenu(c *gin.Context) {
	ctx := c.Request.Context()
	all, err := s.deps.Menu.ListMenu(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list menu")
		abortError(c, http.StatusInternalServerError, "menu unavailable")
		return
	}
	items := services.AvailableItems(all)
	if cat := c.Query("category"); cat != "" {
		if !models.ValidCategory(cat) {
			abortError(c, http.StatusBadRequest, "unknown category")
			return
		}
		items = services.ByCategory(items, cat)
	}
	cust := customer(c)
	if cust != nil {
		if _, err := s.deps.Favorites.List(ctx, cust); err != nil {
			s.log.Warn().Err(err).Int64("customer_id", cust.ID).Msg("load favorites")
		}
	}
	out := make([]menuItemJSON, 0, len(items))
	for _, it := range items {
		out = append(out, menuItemJSON{
			ID:          it.ID,
			Category:    it.Category,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price.StringFixed(2),
			ImageURL:    it.ImageURL,
			IsNew:       it.IsNew,
			Favorite:    s.deps.Favorites.IsFavorite(cust, it.ID),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (s *Server) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, toCartJSON(session(c).View()))
}

// cartResult answers a cart mutation with the fresh cart, or 409 while an order is being placed.
func cartResult(c *gin.Context, sess *services.Session, err error) {
	if errors.Is(err, services.ErrSubmissionInProgress) {
		abortError(c, http.StatusConflict, err.Error())
		return
	}
	c.JSON(http.StatusOK, toCartJSON(sess.View()))
}

func (s *Server) addCartItem(c *gin.Context) {
	var req struct {
		ItemID string `json:"item_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}
	it, err := s.deps.Menu.GetMenuItem(c.Request.Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			abortError(c, http.StatusNotFound, "item not found")
			return
		}
		s.log.Error().Err(err).Str("item_id", req.ItemID).Msg("get menu item")
		abortError(c, http.StatusInternalServerError, "menu unavailable")
		return
	}
	if !it.Available() {
		abortError(c, http.StatusUnprocessableEntity, "item not available")
		return
	}
	sess := session(c)
	cartResult(c, sess, sess.AddItem(*it))
}

func (s *Server) setCartQuantity(c *gin.Context) {
	var req struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}
	sess := session(c)
	cartResult(c, sess, sess.SetQuantity(c.Param("id"), *req.Quantity))
}

func (s *Server) removeCartItem(c *gin.Context) {
	sess := session(c)
	cartResult(c, sess, sess.RemoveItem(c.Param("id")))
}

func (s *Server) clearCart(c *gin.Context) {
	sess := session(c)
	cartResult(c, sess, sess.Clear())
}

func (s *Server) setDelivery(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number"`
		Notes       string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.TableNumber != "" {
		n, err := strconv.Atoi(req.TableNumber)
		if err != nil || n < 1 || n > s.deps.Tables {
			abortError(c, http.StatusBadRequest, "unknown table")
			return
		}
	}
	sess := session(c)
	sess.SetTable(req.TableNumber)
	sess.SetNote(req.Notes)
	c.JSON(http.StatusOK, toCartJSON(sess.View()))
}

func (s *Server) checkout(c *gin.Context) {
	order, err := session(c).Checkout(c.Request.Context(), s.deps.Pipeline, customer(c))
	switch {
	case errors.Is(err, services.ErrSubmissionInProgress):
		abortError(c, http.StatusConflict, err.Error())
		return
	case services.IsValidation(err):
		abortError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.log.Error().Err(err).Msg("checkout")
		abortError(c, http.StatusInternalServerError, "checkout failed")
		return
	}
	c.JSON(http.StatusCreated, toOrderJSON(order))
}

func (s *Server) listFavorites(c *gin.Context) {
	ids, err := s.deps.Favorites.List(c.Request.Context(), customer(c))
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		abortError(c, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		abortError(c, http.StatusBadGateway, "favorites unavailable")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"item_ids": ids})
}

func (s *Server) toggleFavorite(c *gin.Context) {
	added, err := s.deps.Favorites.Toggle(c.Request.Context(), customer(c), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		abortError(c, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		abortError(c, http.StatusBadGateway, "favorite not saved")
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}
