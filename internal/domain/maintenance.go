package domain

import "time"

type MaintenanceStatus string
type MaintenanceType string

const (
	MaintenanceScheduled  MaintenanceStatus = "SCHEDULED"
	MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceCompleted  MaintenanceStatus = "COMPLETED"
	MaintenanceCancelled  MaintenanceStatus = "CANCELLED"

	JobRoutine    MaintenanceType = "ROUTINE"
	JobRepair     MaintenanceType = "REPAIR"
	JobInspection MaintenanceType = "INSPECTION"
	JobRecall     MaintenanceType = "RECALL"
	JobEmergency  MaintenanceType = "EMERGENCY"
)

type MaintenancePart struct {
	PartName string
	Quantity int
	UnitCost Money
}

type MaintenanceJob struct {
	ID                 string
	JobNumber          string
	VehicleID          string
	JobType            MaintenanceType
	Status             MaintenanceStatus
	Priority           int
	ScheduledAt        time.Time
	StartedAt          *time.Time
	CompletedAt        *time.Time
	OdometerKmAtService *int64
	LaborCost          Money
	PartsCost          Money
	Notes              string
	Parts              []MaintenancePart
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TotalCost is always derived, never stored independently of its parts.
func (j *MaintenanceJob) TotalCost() Money {
	return j.LaborCost.Add(j.PartsCost)
}

func NewMaintenanceJob(vehicleID string, jobType MaintenanceType, scheduledAt time.Time) (*MaintenanceJob, error) {
	switch jobType {
	case JobRoutine, JobRepair, JobInspection, JobRecall, JobEmergency:
	default:
		return nil, ValidationError("jobType", "unknown maintenance job type")
	}
	return &MaintenanceJob{
		VehicleID:   vehicleID,
		JobType:     jobType,
		Status:      MaintenanceScheduled,
		ScheduledAt: scheduledAt,
	}, nil
}

// Start transitions SCHEDULED -> IN_PROGRESS. startedAt must not precede
// scheduledAt.
func (j *MaintenanceJob) Start(startedAt time.Time) error {
	if j.Status != MaintenanceScheduled {
		return InvalidState("cannot start maintenance job in " + string(j.Status) + " state")
	}
	if startedAt.Before(j.ScheduledAt) {
		return ValidationError("startedAt", "startedAt cannot precede scheduledAt")
	}
	j.Status = MaintenanceInProgress
	j.StartedAt = &startedAt
	return nil
}

// Complete transitions IN_PROGRESS -> COMPLETED. completedAt must not
// precede startedAt.
func (j *MaintenanceJob) Complete(completedAt time.Time, odometerKm int64) error {
	if j.Status != MaintenanceInProgress {
		return InvalidState("cannot complete maintenance job in " + string(j.Status) + " state")
	}
	if j.StartedAt != nil && completedAt.Before(*j.StartedAt) {
		return ValidationError("completedAt", "completedAt cannot precede startedAt")
	}
	j.Status = MaintenanceCompleted
	j.CompletedAt = &completedAt
	j.OdometerKmAtService = &odometerKm
	return nil
}

// Cancel transitions SCHEDULED -> CANCELLED.
func (j *MaintenanceJob) Cancel() error {
	if j.Status != MaintenanceScheduled {
		return InvalidState("cannot cancel maintenance job in " + string(j.Status) + " state")
	}
	j.Status = MaintenanceCancelled
	return nil
}

// ReleasesVehicle reports whether finishing this job (complete or cancel)
// should flip the vehicle back to AVAILABLE.
func (j *MaintenanceJob) ReleasesVehicle() bool {
	return j.Status == MaintenanceCompleted || j.Status == MaintenanceCancelled
}
