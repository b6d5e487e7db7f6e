package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rental/internal/domain"
	"rental/internal/service"
)

// CarHandler handles HTTP requests for cars.
type CarHandler struct {
	carService *service.CarService
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(carService *service.CarService) *CarHandler {
	return &CarHandler{carService: carService}
}

// RegisterCarRequest is the HTTP request body for listing a car.
type RegisterCarRequest struct {
	OwnerEmail  string  `json:"ownerEmail"`
	Model       string  `json:"model"`
	PricePerDay float64 `json:"pricePerDay"`
	Location    struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"location"`
}

// UpdateRateRequest is the HTTP request body for changing a car's daily rate.
type UpdateRateRequest struct {
	OwnerEmail  string  `json:"ownerEmail"`
	PricePerDay float64 `json:"pricePerDay"`
}

// UnlistCarRequest is the HTTP request body for unlisting a car.
type UnlistCarRequest struct {
	OwnerEmail string `json:"ownerEmail"`
}

// CarResponse is the HTTP response for car operations.
type CarResponse struct {
	ID          string                 `json:"id"`
	OwnerEmail  string                 `json:"ownerEmail"`
	Model       string                 `json:"model"`
	PricePerDay float64                `json:"pricePerDay"`
	Location    PickupLocationResponse `json:"location"`
	Status      string                 `json:"status"`
	CreatedAt   string                 `json:"createdAt"`
}

// RegisterCar handles POST /v1/cars
func (h *CarHandler) RegisterCar(c *gin.Context) {
	var req RegisterCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	car, err := h.carService.RegisterCar(c.Request.Context(), service.RegisterCarRequest{
		OwnerEmail:  req.OwnerEmail,
		Model:       req.Model,
		PricePerDay: req.PricePerDay,
		Location: domain.PickupLocation{
			Name:    req.Location.Name,
			Address: req.Location.Address,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toCarResponse(car))
}

// GetCar handles GET /v1/cars/:id
func (h *CarHandler) GetCar(c *gin.Context) {
	car, err := h.carService.GetCar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCarResponse(car))
}

// GetAll handles GET /v1/cars with an optional ownerEmail filter.
func (h *CarHandler) GetAll(c *gin.Context) {
	var cars []*domain.Car
	var err error

	if owner := c.Query("ownerEmail"); owner != "" {
		cars, err = h.carService.ListCarsByOwner(c.Request.Context(), owner)
	} else {
		cars, err = h.carService.ListCars(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CarResponse, 0, len(cars))
	for _, car := range cars {
		response = append(response, toCarResponse(car))
	}

	respondJSON(c, http.StatusOK, response)
}

// UpdateRate handles POST /v1/cars/:id/rate
func (h *CarHandler) UpdateRate(c *gin.Context) {
	var req UpdateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	car, err := h.carService.UpdateDailyRate(c.Request.Context(), service.UpdateDailyRateRequest{
		CarID:       c.Param("id"),
		OwnerEmail:  req.OwnerEmail,
		PricePerDay: req.PricePerDay,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCarResponse(car))
}

// Unlist handles POST /v1/cars/:id/unlist
func (h *CarHandler) Unlist(c *gin.Context) {
	var req UnlistCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.carService.UnlistCar(c.Request.Context(), c.Param("id"), req.OwnerEmail); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toCarResponse(car *domain.Car) CarResponse {
	return CarResponse{
		ID:          car.ID,
		OwnerEmail:  car.OwnerEmail,
		Model:       car.Model,
		PricePerDay: car.PricePerDay,
		Location:    PickupLocationResponse{Name: car.Location.Name, Address: car.Location.Address},
		Status:      string(car.Status),
		CreatedAt:   car.CreatedAt.Format(time.RFC3339),
	}
}
