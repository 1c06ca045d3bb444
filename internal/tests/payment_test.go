package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"citylift/internal/domain"
	"citylift/internal/repository"
	"citylift/internal/service"
)

func paymentRequest(rideID, userID, amount string) service.RecordPaymentRequest {
	return service.RecordPaymentRequest{
		UserID: userID,
		RideID: rideID,
		Amount: decimal.RequireFromString(amount),
		Method: domain.PaymentMethodMobileMoney,
	}
}

func TestPayment_PendingRide_ClaimsVehicleAndActivatesRide(t *testing.T) {
	f := newFixture(t)
	vehicle := f.addVehicle(domain.VehicleStatusAvailable)
	ride := f.addRide(vehicle.ID, domain.RideStatusPending)

	payment, err := f.paymentService(service.DefaultBookingPolicy()).RecordPayment(
		context.Background(), paymentRequest(ride.ID, ride.UserID, "3.55"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !payment.Amount.Equal(decimal.RequireFromString("3.55")) {
		t.Errorf("expected amount 3.55, got %s", payment.Amount)
	}
	if got := f.vehicles.GetVehicle(vehicle.ID).Status; got != domain.VehicleStatusInUse {
		t.Errorf("expected vehicle IN_USE, got %s", got)
	}
	if got := f.rides.GetRide(ride.ID).Status; got != domain.RideStatusActive {
		t.Errorf("expected ride ACTIVE, got %s", got)
	}
	if f.cache.InvalidateCount != 1 {
		t.Errorf("expected cache invalidated once, got %d", f.cache.InvalidateCount)
	}
	if keys := f.publisher.RoutingKeys(); len(keys) != 1 || keys[0] != service.EventPaymentRecorded {
		t.Errorf("expected one %s event, got %v", service.EventPaymentRecorded, keys)
	}
}

// A second payment for the same (ride, user) replaces the first.
func TestPayment_SameRideAndUser_Upserts(t *testing.T) {
	f := newFixture(t)
	vehicle := f.addVehicle(domain.VehicleStatusAvailable)
	ride := f.addRide(vehicle.ID, domain.RideStatusPending)
	paymentService := f.paymentService(service.DefaultBookingPolicy())

	first, err := paymentService.RecordPayment(context.Background(), paymentRequest(ride.ID, ride.UserID, "3.55"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := paymentRequest(ride.ID, ride.UserID, "4.00")
	req.Method = domain.PaymentMethodBankCard
	second, err := paymentService.RecordPayment(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.payments.CountPayments() != 1 {
		t.Fatalf("expected 1 payment, got %d", f.payments.CountPayments())
	}
	if second.ID != first.ID {
		t.Errorf("expected the existing payment %s, got %s", first.ID, second.ID)
	}

	stored, _ := f.payments.GetByRideID(context.Background(), ride.ID)
	if !stored[0].Amount.Equal(decimal.RequireFromString("4.00")) || stored[0].Method != domain.PaymentMethodBankCard {
		t.Errorf("expected latest amount and method, got %s %s", stored[0].Amount, stored[0].Method)
	}

	events := f.publisher.Events()
	if created := events[1].Payload.(service.PaymentEvent).Created; created {
		t.Error("second payment must not be reported as created")
	}
}

func TestPayment_DifferentUsersOnSameRide_Distinct(t *testing.T) {
	f := newFixture(t)
	vehicle := f.addVehicle(domain.VehicleStatusAvailable)
	ride := f.addRide(vehicle.ID, domain.RideStatusPending)
	paymentService := f.paymentService(service.DefaultBookingPolicy())

	for i := 0; i < 2; i++ {
		if _, err := paymentService.RecordPayment(context.Background(), paymentRequest(ride.ID, uuid.NewString(), "2.00")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if f.payments.CountPayments() != 2 {
		t.Errorf("expected 2 payments, got %d", f.payments.CountPayments())
	}
}

func TestPayment_UnknownRide_NothingPersisted(t *testing.T) {
	f := newFixture(t)
	vehicle := f.addVehicle(domain.VehicleStatusAvailable)

	_, err := f.paymentService(service.DefaultBookingPolicy()).RecordPayment(
		context.Background(), paymentRequest(uuid.NewString(), uuid.NewString(), "3.00"))
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if f.payments.CountPayments() != 0 {
		t.Error("no payment should be stored")
	}
	if f.payments.UpsertCallCount != 0 {
		t.Error("payment repository must not be written")
	}
	if got := f.vehicles.GetVehicle(vehicle.ID).Status; got != domain.VehicleStatusAvailable {
		t.Errorf("vehicle must be untouched, got %s", got)
	}
}

func TestPayment_Strict_BusyVehicle_RollsBack(t *testing.T) {
	f := newFixture(t)
	vehicle := f.addVehicle(domain.VehicleStatusInUse)
	ride := f.addRide(vehicle.ID, domain.RideStatusPending)

	_, err := f.paymentService(service.DefaultBookingPolicy()).RecordPayment(
		context.Background(), paymentRequest(ride.ID, ride.UserID, "3.00"))
	if !errors.Is(err, service.ErrVehicleUnavailable) {
		t.Fatalf("expected ErrVehicleUnavailable, got %v", err)
	}

	if f.payments.CountPayments() != 0 {
		t.Error("payment must be rolled back")
	}
	if got := f.rides.GetRide(ride.ID).Status; got != domain.RideStatusPending {
		t.Errorf("expected ride PENDING, got %s", got)
	}
	if f.tx.RollbackCount != 1 {
		t.Errorf("expected 1 rollback, got %d", f.tx.RollbackCount)
	}
	if len(f.publisher.Events()) != 0 {
		t.Error("no event should be published")
	}
}

// Paying an ACTIVE ride leaves its vehicle IN_USE whatever state the vehicle
// row was found in, as long as it was not taken out of service.
func TestPayment_Strict_ActiveRide_VehicleEndsInUse(t *testing.T) {
	for _, status := range []domain.VehicleStatus{domain.VehicleStatusInUse, domain.VehicleStatusAvailable} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			vehicle := f.addVehicle(status)
			ride := f.addRide(vehicle.ID, domain.RideStatusActive)

			_, err := f.paymentService(service.DefaultBookingPolicy()).RecordPayment(
				context.Background(), paymentRequest(ride.ID, ride.UserID, "3.00"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := f.vehicles.GetVehicle(vehicle.ID).Status; got != domain.VehicleStatusInUse {
				t.Errorf("expected vehicle IN_USE, got %s", got)
			}
			if got := f.rides.GetRide(ride.ID).Status; got != domain.RideStatusActive {
				t.Errorf("expected ride ACTIVE, got %s", got)
			}
			if f.payments.CountPayments() != 1 {
				t.Errorf("expected 1 payment, got %d", f.payments.CountPayments())
			}
		})
	}
}

func TestPayment_Strict_ActiveRide_VehicleInMaintenance_RollsBack(t *testing.T) {
	f := newFixture(t)
	vehicle := f.addVehicle(domain.VehicleStatusMaintenance)
	ride := f.addRide(vehicle.ID, domain.RideStatusActive)

	_, err := f.paymentService(service.DefaultBookingPolicy()).RecordPayment(
		context.Background(), paymentRequest(ride.ID, ride.UserID, "3.00"))
	if !errors.Is(err, service.ErrVehicleUnavailable) {
		t.Fatalf("expected ErrVehicleUnavailable, got %v", err)
	}
	if f.payments.CountPayments() != 0 {
		t.Error("payment must be rolled back")
	}
	if got := f.vehicles.GetVehicle(vehicle.ID).Status; got != domain.VehicleStatusMaintenance {
		t.Errorf("expected vehicle MAINTENANCE, got %s", got)
	}
}

// Starting a ride and then paying for it keeps the vehicle out of matching.
func TestPayment_Strict_AfterRideStarted_VehicleNotMatchable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, vehicle := f.activateAt(t, domain.VehicleStatusAvailable, 0.0005, 0.0005)
	ride := f.addRide(vehicle.ID, domain.RideStatusPending)

	if _, err := f.rideService(service.DefaultBookingPolicy()).SetStatus(ctx, ride.ID, domain.RideStatusActive); err != nil {
		t.Fatalf("start ride: %v", err)
	}
	if _, err := f.paymentService(service.DefaultBookingPolicy()).RecordPayment(ctx, paymentRequest(ride.ID, ride.UserID, "3.55")); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	if got := f.vehicles.GetVehicle(vehicle.ID).Status; got != domain.VehicleStatusInUse {
		t.Fatalf("vehicle AVAILABLE while a paid ride holds it: %s", got)
	}
	nearby, err := f.matchingService(service.MatchingOptions{}).FindNearby(ctx, service.FindNearbyRequest{Lat: ptr(0), Lng: ptr(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nearby) != 0 {
		t.Errorf("expected no nearby drivers, got %d", len(nearby))
	}
}

func TestPayment_Strict_TerminalRide_Rejected(t *testing.T) {
	for _, status := range []domain.RideStatus{domain.RideStatusCompleted, domain.RideStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			vehicle := f.addVehicle(domain.VehicleStatusAvailable)
			ride := f.addRide(vehicle.ID, status)

			_, err := f.paymentService(service.DefaultBookingPolicy()).RecordPayment(
				context.Background(), paymentRequest(ride.ID, ride.UserID, "3.00"))
			if !errors.Is(err, service.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			if f.payments.CountPayments() != 0 {
				t.Error("no payment should be stored")
			}
			if got := f.vehicles.GetVehicle(vehicle.ID).Status; got != domain.VehicleStatusAvailable {
				t.Errorf("vehicle must stay AVAILABLE, got %s", got)
			}
		})
	}
}

func TestPayment_Compat_ForcesVehicleInUse(t *testing.T) {
	for _, status := range []domain.VehicleStatus{domain.VehicleStatusAvailable, domain.VehicleStatusMaintenance, domain.VehicleStatusInUse} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			vehicle := f.addVehicle(status)
			ride := f.addRide(vehicle.ID, domain.RideStatusCompleted)

			_, err := f.paymentService(service.CompatBookingPolicy()).RecordPayment(
				context.Background(), paymentRequest(ride.ID, ride.UserID, "3.00"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := f.vehicles.GetVehicle(vehicle.ID).Status; got != domain.VehicleStatusInUse {
				t.Errorf("expected vehicle IN_USE, got %s", got)
			}
			if got := f.rides.GetRide(ride.ID).Status; got != domain.RideStatusCompleted {
				t.Errorf("ride status must be untouched, got %s", got)
			}
		})
	}
}

func TestPayment_InvalidInput_Rejected(t *testing.T) {
	f := newFixture(t)
	vehicle := f.addVehicle(domain.VehicleStatusAvailable)
	ride := f.addRide(vehicle.ID, domain.RideStatusPending)
	paymentService := f.paymentService(service.DefaultBookingPolicy())

	testCases := []struct {
		name    string
		mutate  func(*service.RecordPaymentRequest)
		wantErr error
	}{
		{"zero amount", func(r *service.RecordPaymentRequest) { r.Amount = decimal.Zero }, service.ErrInvalidPaymentAmount},
		{"negative amount", func(r *service.RecordPaymentRequest) { r.Amount = decimal.NewFromInt(-1) }, service.ErrInvalidPaymentAmount},
		{"unknown method", func(r *service.RecordPaymentRequest) { r.Method = "CASH" }, service.ErrInvalidPaymentMethod},
		{"ride id not a uuid", func(r *service.RecordPaymentRequest) { r.RideID = "ride-1" }, service.ErrInvalidRideID},
		{"missing user", func(r *service.RecordPaymentRequest) { r.UserID = "" }, service.ErrInvalidUserID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := paymentRequest(ride.ID, ride.UserID, "3.00")
			tc.mutate(&req)

			_, err := paymentService.RecordPayment(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if f.payments.CountPayments() != 0 {
		t.Errorf("expected no payments, got %d", f.payments.CountPayments())
	}
}

func TestPayment_Lists(t *testing.T) {
	f := newFixture(t)
	vehicle := f.addVehicle(domain.VehicleStatusAvailable)
	ride := f.addRide(vehicle.ID, domain.RideStatusPending)
	paymentService := f.paymentService(service.DefaultBookingPolicy())

	if _, err := paymentService.RecordPayment(context.Background(), paymentRequest(ride.ID, ride.UserID, "3.00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byUser, err := paymentService.ListPaymentsByUser(context.Background(), ride.UserID)
	if err != nil || len(byUser) != 1 {
		t.Errorf("expected 1 payment by user, got %d (%v)", len(byUser), err)
	}
	byRide, err := paymentService.ListPaymentsByRide(context.Background(), ride.ID)
	if err != nil || len(byRide) != 1 {
		t.Errorf("expected 1 payment by ride, got %d (%v)", len(byRide), err)
	}

	empty, err := paymentService.ListPaymentsByUser(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil list, got %v", empty)
	}

	if _, err := paymentService.ListPaymentsByRide(context.Background(), "nope"); !errors.Is(err, service.ErrInvalidRideID) {
		t.Errorf("expected ErrInvalidRideID, got %v", err)
	}
}
