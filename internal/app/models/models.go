package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleFaculty RoleType = "FACULTY"
)

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty:
		return true
	default:
		return false
	}
}

// ProjectStatus is the visibility state of a project opening
type ProjectStatus string

const (
	ProjectStatusOpen   ProjectStatus = "open"
	ProjectStatusClosed ProjectStatus = "closed"
)

// Valid reports whether s is a known project status
func (s ProjectStatus) Valid() bool {
	return s == ProjectStatusOpen || s == ProjectStatusClosed
}

// ApplicationStatus is the lifecycle state of an application edge
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Valid reports whether s is a known application status
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed out of s
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationAccepted || s == ApplicationRejected
}

// IsDecision reports whether s is a valid target for a faculty decision
func (s ApplicationStatus) IsDecision() bool {
	return s.IsTerminal()
}

// CanTransitionTo reports whether the state machine allows s -> to
func (s ApplicationStatus) CanTransitionTo(to ApplicationStatus) bool {
	return s == ApplicationPending && to.IsDecision()
}

// NotificationType tags a notification for the client
type NotificationType string

const (
	NotificationStatusUpdate NotificationType = "StatusUpdate"
	NotificationApplication  NotificationType = "Application"
	NotificationReject       NotificationType = "Reject"
	NotificationGeneric      NotificationType = "Generic"
)

// Valid reports whether t is a known notification type
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationStatusUpdate, NotificationApplication, NotificationReject, NotificationGeneric:
		return true
	default:
		return false
	}
}
