package models

import (
	"fmt"
	"math"
	"strconv"
)

// Permission represents an access level on a shared note
type Permission string

const (
	PermissionRead Permission = "read"
	PermissionEdit Permission = "edit"
)

// Valid reports whether p is a known permission
func (p Permission) Valid() bool {
	return p == PermissionRead || p == PermissionEdit
}

// View represents the active workspace view
type View string

const (
	ViewNotes    View = "notes"
	ViewCalendar View = "calendar"
)

// CalendarType tags the calendar system of an event
type CalendarType string

const (
	CalendarSolar   CalendarType = "solar"
	CalendarLunar   CalendarType = "lunar"
	CalendarHoliday CalendarType = "holiday" // system events only
	CalendarTerm    CalendarType = "term"    // system events only
)

// Recurrence tags how an event repeats. Tag only, never expanded.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

// ValidRecurrences returns every accepted recurrence tag
func ValidRecurrences() []Recurrence {
	return []Recurrence{RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly}
}

// NotificationType represents the kind of app notification
type NotificationType string

const (
	NotificationReminder NotificationType = "reminder"
	NotificationSystem   NotificationType = "system"
	NotificationMention  NotificationType = "mention"
)

// FamilyRole represents a member's role in a family group
type FamilyRole string

const (
	RoleOwner  FamilyRole = "owner"
	RoleMember FamilyRole = "member"
)

// FamilyFolderID is the pseudo-folder that shows the family pool
const FamilyFolderID = "family"

// User is the logged-in identity
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Token       string `json:"token"`
	AvatarColor string `json:"avatarColor,omitempty"`
	FamilyID    string `json:"familyId,omitempty"`
}

// Folder is a static grouping bucket for notes
type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	FamilyID string `json:"familyId,omitempty"`
}

// Attachment is a file reference attached to a note
type Attachment struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Size      int64  `json:"size"`
	Data      string `json:"data"`
	CreatedAt int64  `json:"createdAt"`
}

// HumanSize formats the attachment size ("0 Bytes", "1.5 KB", ...)
func (a Attachment) HumanSize() string {
	return FormatBytes(a.Size, 2)
}

// FormatBytes formats a byte count with the given number of decimals
func FormatBytes(bytes int64, decimals int) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	if decimals < 0 {
		decimals = 0
	}
	sizes := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	// parseFloat-style trimming: 1.50 -> 1.5, 2.00 -> 2
	f, _ := strconv.ParseFloat(s, 64)
	return fmt.Sprintf("%s %s", strconv.FormatFloat(f, 'f', -1, 64), sizes[i])
}

// Comment is an append-only remark on a note. Username is a snapshot
// taken at creation and is never re-resolved.
type Comment struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	Content    string `json:"content"`
	QuotedText string `json:"quotedText,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
}

// Collaborator is a user granted explicit access to a note. Username is
// a snapshot taken at invite time.
type Collaborator struct {
	UserID      string     `json:"userId"`
	Username    string     `json:"username"`
	AvatarColor string     `json:"avatarColor"`
	Permission  Permission `json:"permission"`
}

// ShareConfig is a note's sharing configuration. URL, once generated,
// survives toggling public sharing off.
type ShareConfig struct {
	IsPublic         bool           `json:"isPublic"`
	PublicPermission Permission     `json:"publicPermission"`
	URL              string         `json:"url,omitempty"`
	Collaborators    []Collaborator `json:"collaborators"`
}

// DefaultShareConfig returns a non-public, read-only share configuration
func DefaultShareConfig() ShareConfig {
	return ShareConfig{
		PublicPermission: PermissionRead,
		Collaborators:    []Collaborator{},
	}
}

// Clone returns a deep copy of the share configuration
func (s ShareConfig) Clone() ShareConfig {
	out := s
	out.Collaborators = append([]Collaborator{}, s.Collaborators...)
	return out
}

// Note is a markdown page
type Note struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	FolderID    string       `json:"folderId"`
	FamilyID    string       `json:"familyId,omitempty"`
	Attachments []Attachment `json:"attachments"`
	Comments    []Comment    `json:"comments"`
	ShareConfig ShareConfig  `json:"shareConfig"`
	CreatedAt   int64        `json:"createdAt"`
	UpdatedAt   int64        `json:"updatedAt"`
}

// Clone returns a deep copy so callers never share slices with the store
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	out := *n
	out.Attachments = append([]Attachment{}, n.Attachments...)
	out.Comments = append([]Comment{}, n.Comments...)
	out.ShareConfig = n.ShareConfig.Clone()
	return &out
}

// InFamilyPool reports whether the note belongs to the family pool
func (n *Note) InFamilyPool() bool {
	return n.FamilyID != ""
}

// DisplayTitle returns the title, or "Untitled" when empty
func (n *Note) DisplayTitle() string {
	if n.Title == "" {
		return "Untitled"
	}
	return n.Title
}

// CalendarEvent is a dated reminder. Date is a single epoch-ms timestamp.
type CalendarEvent struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Date          int64        `json:"date"`
	Type          CalendarType `json:"type"`
	Recurrence    Recurrence   `json:"recurrence"`
	NotifyUsers   []string     `json:"notifyUsers"`
	ShowCountdown bool         `json:"showCountdown"`
	Description   string       `json:"description,omitempty"`
	FamilyID      string       `json:"familyId,omitempty"`
	IsSystem      bool         `json:"isSystem,omitempty"`
}

// AppNotification is an in-app notice. Created only, never transitioned.
type AppNotification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"isRead"`
	CreatedAt int64            `json:"createdAt"`
	Type      NotificationType `json:"type"`
}

// Family is a family group
type Family struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatorID string     `json:"creatorId"`
	JoinedAt  int64      `json:"joinedAt,omitempty"`
	Role      FamilyRole `json:"role,omitempty"`
}

// FamilyMember is one member of a family group
type FamilyMember struct {
	UserID   string     `json:"userId"`
	Username string     `json:"username"`
	Role     FamilyRole `json:"role"`
	JoinedAt int64      `json:"joinedAt"`
}
