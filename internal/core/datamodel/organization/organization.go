package organization

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Organization struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;uniqueIndex;not null"`
	Timezone  string    `gorm:"column:timezone"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Organization) TableName() string {
	return "organizations"
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Member is a row of organization_members: one user's role in one organization.
type Member struct {
	ID             string    `gorm:"primaryKey;type:uuid"`
	OrganizationID string    `gorm:"column:organization_id;type:uuid;not null;uniqueIndex:idx_org_member"`
	UserID         string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_org_member"`
	Role           string    `gorm:"column:role;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Member) TableName() string {
	return "organization_members"
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type Module struct {
	ID             string    `gorm:"primaryKey;type:uuid"`
	OrganizationID string    `gorm:"column:organization_id;type:uuid;not null;uniqueIndex:idx_org_module"`
	Slug           string    `gorm:"column:slug;not null;uniqueIndex:idx_org_module"`
	Enabled        bool      `gorm:"column:enabled;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Module) TableName() string {
	return "organization_modules"
}

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MemberPermission rows exist only for members with an explicit override.
type MemberPermission struct {
	ID             string    `gorm:"primaryKey;type:uuid"`
	OrganizationID string    `gorm:"column:organization_id;type:uuid;not null;index:idx_member_permission"`
	UserID         string    `gorm:"column:user_id;type:uuid;not null;index:idx_member_permission"`
	PermissionKey  string    `gorm:"column:permission_key;not null"`
	Enabled        bool      `gorm:"column:enabled;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (MemberPermission) TableName() string {
	return "member_permissions"
}

func (p *MemberPermission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
