package events

const (
	EventTypeMemberPermissionsUpdated = "member.permissions_updated"
	EventTypeMemberRoleUpdated        = "member.role_updated"
	EventTypeModuleToggled            = "organization.module_toggled"
	EventTypeStudentStatusChanged     = "student.status_changed"
	EventTypeEMIRecorded              = "emi.recorded"
)

type MemberPermissionsUpdatedEvent struct {
	BaseEvent
	UserID string   `json:"user_id"`
	Keys   []string `json:"keys"`
	// Reset is true when the override was removed and the role default applies again.
	Reset bool `json:"reset"`
}

func NewMemberPermissionsUpdatedEvent(orgID, userID string, keys []string, reset bool) *MemberPermissionsUpdatedEvent {
	return &MemberPermissionsUpdatedEvent{
		BaseEvent: NewBaseEvent(EventTypeMemberPermissionsUpdated, orgID, map[string]interface{}{
			"user_id": userID,
			"keys":    keys,
			"reset":   reset,
		}),
		UserID: userID,
		Keys:   keys,
		Reset:  reset,
	}
}

type MemberRoleUpdatedEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func NewMemberRoleUpdatedEvent(orgID, userID, role string) *MemberRoleUpdatedEvent {
	return &MemberRoleUpdatedEvent{
		BaseEvent: NewBaseEvent(EventTypeMemberRoleUpdated, orgID, map[string]interface{}{
			"user_id": userID,
			"role":    role,
		}),
		UserID: userID,
		Role:   role,
	}
}

type ModuleToggledEvent struct {
	BaseEvent
	Slug    string `json:"slug"`
	Enabled bool   `json:"enabled"`
}

func NewModuleToggledEvent(orgID, slug string, enabled bool) *ModuleToggledEvent {
	return &ModuleToggledEvent{
		BaseEvent: NewBaseEvent(EventTypeModuleToggled, orgID, map[string]interface{}{
			"slug":    slug,
			"enabled": enabled,
		}),
		Slug:    slug,
		Enabled: enabled,
	}
}

type StudentStatusChangedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	ChangedBy string `json:"changed_by"`
}

func NewStudentStatusChangedEvent(orgID, studentID, from, to, changedBy string) *StudentStatusChangedEvent {
	return &StudentStatusChangedEvent{
		BaseEvent: NewBaseEvent(EventTypeStudentStatusChanged, orgID, map[string]interface{}{
			"student_id": studentID,
			"from":       from,
			"to":         to,
			"changed_by": changedBy,
		}),
		StudentID: studentID,
		From:      from,
		To:        to,
		ChangedBy: changedBy,
	}
}

type EMIRecordedEvent struct {
	BaseEvent
	StudentID    string `json:"student_id"`
	Reference    string `json:"reference"`
	Amount       int64  `json:"amount"`
	CashReceived int64  `json:"cash_received"`
	DueAmount    int64  `json:"due_amount"`
}

func NewEMIRecordedEvent(orgID, studentID, reference string, amount, cash, due int64) *EMIRecordedEvent {
	return &EMIRecordedEvent{
		BaseEvent: NewBaseEvent(EventTypeEMIRecorded, orgID, map[string]interface{}{
			"student_id":    studentID,
			"reference":     reference,
			"amount":        amount,
			"cash_received": cash,
			"due_amount":    due,
		}),
		StudentID:    studentID,
		Reference:    reference,
		Amount:       amount,
		CashReceived: cash,
		DueAmount:    due,
	}
}
