package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/irkartik/driver-service/internal/domain"
	"github.com/irkartik/driver-service/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// DriverRequest is the HTTP request body for creating and updating drivers.
// Pointer fields distinguish absent from zero-valued.
type DriverRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	VehicleType  *string `json:"vehicle_type"`
	VehiclePlate *string `json:"vehicle_plate"`
	IsActive     *bool   `json:"is_active"`
}

func (r DriverRequest) toInput() service.DriverInput {
	return service.DriverInput{
		Name:         r.Name,
		Phone:        r.Phone,
		VehicleType:  r.VehicleType,
		VehiclePlate: r.VehiclePlate,
		IsActive:     r.IsActive,
	}
}

// DriverResponse is the full HTTP representation of a driver.
type DriverResponse struct {
	DriverID     int64     `json:"driver_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	VehicleType  string    `json:"vehicle_type"`
	VehiclePlate string    `json:"vehicle_plate"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DriverListItem is the reduced representation used by listings.
type DriverListItem struct {
	DriverID     int64  `json:"driver_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	VehicleType  string `json:"vehicle_type"`
	VehiclePlate string `json:"vehicle_plate"`
	IsActive     bool   `json:"is_active"`
}

// PagedResponse is the pagination envelope for listings.
type PagedResponse struct {
	Count    int              `json:"count"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Results  []DriverListItem `json:"results"`
}

// StatusResponse is the reduced status projection of a driver.
type StatusResponse struct {
	DriverID     int64     `json:"driver_id"`
	Name         string    `json:"name"`
	IsActive     bool      `json:"is_active"`
	VehicleType  string    `json:"vehicle_type"`
	VehiclePlate string    `json:"vehicle_plate"`
	LastUpdated  time.Time `json:"last_updated"`
}

// StatsResponse is the aggregate statistics payload.
type StatsResponse struct {
	TotalDrivers                  int            `json:"total_drivers"`
	ActiveDrivers                 int            `json:"active_drivers"`
	InactiveDrivers               int            `json:"inactive_drivers"`
	VehicleTypeDistribution       map[string]int `json:"vehicle_type_distribution"`
	ActiveVehicleTypeDistribution map[string]int `json:"active_vehicle_type_distribution"`
}

func toDriverResponse(d *domain.Driver) DriverResponse {
	return DriverResponse{
		DriverID:     d.ID,
		Name:         d.Name,
		Phone:        d.Phone,
		VehicleType:  string(d.VehicleType),
		VehiclePlate: d.VehiclePlate,
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toPagedResponse(page *service.DriverPage) PagedResponse {
	results := make([]DriverListItem, 0, len(page.Drivers))
	for _, d := range page.Drivers {
		results = append(results, DriverListItem{
			DriverID:     d.ID,
			Name:         d.Name,
			Phone:        d.Phone,
			VehicleType:  string(d.VehicleType),
			VehiclePlate: d.VehiclePlate,
			IsActive:     d.IsActive,
		})
	}
	return PagedResponse{
		Count:    page.Count,
		Page:     page.Page,
		PageSize: page.PageSize,
		Results:  results,
	}
}

// List handles GET /v1/drivers
func (h *DriverHandler) List(c *gin.Context) {
	page, err := h.driverService.List(c.Request.Context(), listQueryFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPagedResponse(page))
}

// ListActive handles GET /v1/drivers/active
func (h *DriverHandler) ListActive(c *gin.Context) {
	h.listByStatus(c, true)
}

// ListInactive handles GET /v1/drivers/inactive
func (h *DriverHandler) ListInactive(c *gin.Context) {
	h.listByStatus(c, false)
}

func (h *DriverHandler) listByStatus(c *gin.Context, active bool) {
	page, err := h.driverService.ListByStatus(c.Request.Context(), active, listQueryFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPagedResponse(page))
}

// ListByVehicleType handles GET /v1/drivers/by_vehicle_type?vehicle_type=X
func (h *DriverHandler) ListByVehicleType(c *gin.Context) {
	page, err := h.driverService.ListByVehicleType(c.Request.Context(), c.Query("vehicle_type"), listQueryFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPagedResponse(page))
}

// Create handles POST /v1/drivers
func (h *DriverHandler) Create(c *gin.Context) {
	var req DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDriverResponse(driver))
}

// Get handles GET /v1/drivers/:id and GET /v1/drivers/:id/details
func (h *DriverHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	driver, err := h.driverService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDriverResponse(driver))
}

// Update handles PUT /v1/drivers/:id
func (h *DriverHandler) Update(c *gin.Context) {
	h.update(c, false)
}

// PartialUpdate handles PATCH /v1/drivers/:id
func (h *DriverHandler) PartialUpdate(c *gin.Context) {
	h.update(c, true)
}

func (h *DriverHandler) update(c *gin.Context, partial bool) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Update(c.Request.Context(), id, req.toInput(), partial)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDriverResponse(driver))
}

// Delete handles DELETE /v1/drivers/:id
func (h *DriverHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.driverService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleStatus handles POST|PATCH /v1/drivers/:id/toggle_status
func (h *DriverHandler) ToggleStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	driver, err := h.driverService.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDriverResponse(driver))
}

// Activate handles POST|PATCH /v1/drivers/:id/activate
func (h *DriverHandler) Activate(c *gin.Context) {
	h.setStatus(c, true)
}

// Deactivate handles POST|PATCH /v1/drivers/:id/deactivate
func (h *DriverHandler) Deactivate(c *gin.Context) {
	h.setStatus(c, false)
}

func (h *DriverHandler) setStatus(c *gin.Context, active bool) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	driver, err := h.driverService.SetStatus(c.Request.Context(), id, active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDriverResponse(driver))
}

// Status handles GET /v1/drivers/:id/status
func (h *DriverHandler) Status(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	driver, err := h.driverService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{
		DriverID:     driver.ID,
		Name:         driver.Name,
		IsActive:     driver.IsActive,
		VehicleType:  string(driver.VehicleType),
		VehiclePlate: driver.VehiclePlate,
		LastUpdated:  driver.UpdatedAt,
	})
}

// Stats handles GET /v1/drivers/stats
func (h *DriverHandler) Stats(c *gin.Context) {
	stats, err := h.driverService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StatsResponse{
		TotalDrivers:                  stats.TotalDrivers,
		ActiveDrivers:                 stats.ActiveDrivers,
		InactiveDrivers:               stats.InactiveDrivers,
		VehicleTypeDistribution:       stats.VehicleTypeDistribution,
		ActiveVehicleTypeDistribution: stats.ActiveVehicleTypeDistribution,
	})
}

// parseID parses the :id path parameter, responding 400 on failure.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid driver id"})
		return 0, false
	}
	return id, true
}

// listQueryFromContext reads the shared listing parameters from the query
// string.
func listQueryFromContext(c *gin.Context) service.ListQuery {
	q := service.ListQuery{
		VehicleType: c.Query("vehicle_type"),
		Search:      c.Query("search"),
		Ordering:    c.Query("ordering"),
	}

	if raw, ok := c.GetQuery("is_active"); ok {
		if active, err := strconv.ParseBool(raw); err == nil {
			q.IsActive = &active
		}
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		q.Page = page
	}
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil {
		q.PageSize = size
	}
	return q
}
