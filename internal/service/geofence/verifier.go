package geofence

import (
	"context"
	"log/slog"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/outlet"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/geo"
)

// Verifier checks a punch coordinate against the employee's assigned
// outlets. The check is fail-closed: no assigned outlets, no active
// outlets, or an invalid coordinate all reject the punch.
type Verifier struct {
	outlets outlet.OutletRepository
}

func NewVerifier(outlets outlet.OutletRepository) *Verifier {
	return &Verifier{outlets: outlets}
}

// Verify returns the first active assigned outlet whose geofence contains
// the coordinate, or ErrOutsideGeofence.
func (v *Verifier) Verify(ctx context.Context, emp employee.Employee, lat, lon float64) (*outlet.Outlet, error) {
	if !geo.ValidCoordinate(lat, lon) {
		return nil, attendance.ErrOutsideGeofence
	}

	if len(emp.AssignedOutletIDs) == 0 {
		return nil, employee.ErrNoAssignedOutlet
	}

	// Fail closed on lookup errors too: an outlet set we cannot read is
	// treated the same as one the coordinate is outside of.
	outlets, err := v.outlets.GetByIDs(ctx, emp.AssignedOutletIDs)
	if err != nil {
		slog.Error("Failed to load assigned outlets", "error", err, "employee_id", emp.ID)
		return nil, attendance.ErrOutsideGeofence
	}

	for i := range outlets {
		o := outlets[i]
		if !o.IsActive {
			continue
		}
		distance := geo.HaversineDistance(lat, lon, o.Latitude, o.Longitude)
		if distance <= o.RadiusMeters {
			return &o, nil
		}
	}

	return nil, attendance.ErrOutsideGeofence
}
