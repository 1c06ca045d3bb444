package handler

import (
	"time"

	"citylift/internal/domain"
)

// VehicleResponse is the HTTP representation of a vehicle.
type VehicleResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	PlateNumber string    `json:"plate_number"`
	Status      string    `json:"status"`
	DriverID    string    `json:"driver_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserResponse is the HTTP representation of a user.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

// ActivationResponse is the HTTP representation of a driver activation.
type ActivationResponse struct {
	ID        string           `json:"id"`
	DriverID  string           `json:"driver_id"`
	VehicleID string           `json:"vehicle_id"`
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	UpdatedAt time.Time        `json:"updated_at"`
	Vehicle   *VehicleResponse `json:"vehicle,omitempty"`
}

// NearbyDriverResponse is one proximity search result.
type NearbyDriverResponse struct {
	Activation ActivationResponse `json:"activation"`
	Vehicle    VehicleResponse    `json:"vehicle"`
	Driver     UserResponse       `json:"driver"`
	DistanceKm float64            `json:"distance_km"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	VehicleID     string    `json:"vehicle_id"`
	StartLocation string    `json:"start_location"`
	EndLocation   string    `json:"end_location"`
	Fare          float64   `json:"fare"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentResponse is the HTTP representation of a payment.
type PaymentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	RideID    string    `json:"ride_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	CreatedAt time.Time `json:"created_at"`
}

func toVehicleResponse(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:          v.ID,
		Type:        string(v.Type),
		Name:        v.Name,
		PlateNumber: v.PlateNumber,
		Status:      string(v.Status),
		DriverID:    v.DriverID,
		CreatedAt:   v.CreatedAt,
	}
}

func toVehicleResponses(vehicles []*domain.Vehicle) []VehicleResponse {
	response := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		response = append(response, toVehicleResponse(v))
	}
	return response
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  string(u.Role),
	}
}

func toActivationResponse(a *domain.DriverActivation) ActivationResponse {
	response := ActivationResponse{
		ID:        a.ID,
		DriverID:  a.DriverID,
		VehicleID: a.VehicleID,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
		UpdatedAt: a.UpdatedAt,
	}
	if a.Vehicle != nil {
		v := toVehicleResponse(a.Vehicle)
		response.Vehicle = &v
	}
	return response
}

func toNearbyResponses(results []*domain.NearbyDriver) []NearbyDriverResponse {
	response := make([]NearbyDriverResponse, 0, len(results))
	for _, r := range results {
		response = append(response, NearbyDriverResponse{
			Activation: toActivationResponse(r.Activation),
			Vehicle:    toVehicleResponse(r.Vehicle),
			Driver:     toUserResponse(r.Driver),
			DistanceKm: r.DistanceKm,
		})
	}
	return response
}

func toRideResponse(r *domain.Ride) RideResponse {
	return RideResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		VehicleID:     r.VehicleID,
		StartLocation: r.StartLocation,
		EndLocation:   r.EndLocation,
		Fare:          r.Fare.InexactFloat64(),
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
	}
}

func toRideResponses(rides []*domain.Ride) []RideResponse {
	response := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		response = append(response, toRideResponse(r))
	}
	return response
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		RideID:    p.RideID,
		Amount:    p.Amount.InexactFloat64(),
		Method:    string(p.Method),
		CreatedAt: p.CreatedAt,
	}
}

func toPaymentResponses(payments []*domain.Payment) []PaymentResponse {
	response := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		response = append(response, toPaymentResponse(p))
	}
	return response
}
