package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gonote/gonote/internal/models"
)

// wireTime is an ISO-8601 timestamp on the wire and epoch ms in models.
// Numbers are accepted as epoch ms; null and "" decode to zero.
type wireTime int64

func (t wireTime) MarshalJSON() ([]byte, error) {
	if t == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(time.UnixMilli(int64(t)).UTC().Format(time.RFC3339Nano))
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*t = 0
		return nil
	}
	if data[0] != '"' {
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("parse timestamp %s: %w", data, err)
		}
		*t = wireTime(ms)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = 0
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	*t = wireTime(parsed.UnixMilli())
	return nil
}

// flexID accepts numeric and string ids. Numeric-looking ids are sent
// back as numbers.
type flexID string

func (id flexID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseUint(string(id), 10, 64); err == nil {
		return []byte(strconv.FormatUint(n, 10)), nil
	}
	return json.Marshal(string(id))
}

func (id *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("parse id %s: %w", data, err)
	}
	*id = flexID(n.String())
	return nil
}

// userList is a list of user ids. The backend stores it as a JSON-encoded
// string; arrays are accepted too.
type userList []string

func (l userList) MarshalJSON() ([]byte, error) {
	inner, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	if l == nil {
		inner = []byte("[]")
	}
	return json.Marshal(string(inner))
}

func (l *userList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*l = nil
		return nil
	case data[0] == '[':
		return json.Unmarshal(data, (*[]string)(l))
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*l = nil
		return nil
	}
	return json.Unmarshal([]byte(s), (*[]string)(l))
}

type wireUser struct {
	ID          flexID  `json:"id"`
	Username    string  `json:"username"`
	AvatarColor string  `json:"avatarColor"`
	FamilyID    *string `json:"familyId"`
}

func (u wireUser) toModel(token string) *models.User {
	return &models.User{
		ID:          string(u.ID),
		Username:    u.Username,
		Token:       token,
		AvatarColor: u.AvatarColor,
		FamilyID:    deref(u.FamilyID),
	}
}

type wireAttachment struct {
	ID        flexID   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Size      int64    `json:"size"`
	Data      string   `json:"data,omitempty"`
	URL       string   `json:"url,omitempty"`
	CreatedAt wireTime `json:"createdAt"`
}

type wireComment struct {
	ID         flexID   `json:"id"`
	UserID     flexID   `json:"userId"`
	Username   string   `json:"username"`
	Content    string   `json:"content"`
	QuotedText string   `json:"quotedText,omitempty"`
	CreatedAt  wireTime `json:"createdAt"`
}

func (c wireComment) toModel() models.Comment {
	return models.Comment{
		ID:         string(c.ID),
		UserID:     string(c.UserID),
		Username:   c.Username,
		Content:    c.Content,
		QuotedText: c.QuotedText,
		CreatedAt:  int64(c.CreatedAt),
	}
}

// wireNote is the backend's note shape. Sharing is flattened into
// isPublic/publicPermission; the nested shareConfig is sent alongside for
// backends that keep collaborators.
type wireNote struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	Content          string              `json:"content"`
	FolderID         string              `json:"folderId"`
	FamilyID         *string             `json:"familyId"`
	IsPublic         bool                `json:"isPublic"`
	PublicPermission string              `json:"publicPermission,omitempty"`
	ShareConfig      *models.ShareConfig `json:"shareConfig,omitempty"`
	Attachments      []wireAttachment    `json:"attachments,omitempty"`
	Comments         []wireComment       `json:"comments,omitempty"`
	CreatedAt        wireTime            `json:"createdAt"`
	UpdatedAt        wireTime            `json:"updatedAt"`
}

func noteToWire(n *models.Note) wireNote {
	w := wireNote{
		ID:               n.ID,
		Title:            n.Title,
		Content:          n.Content,
		FolderID:         n.FolderID,
		IsPublic:         n.ShareConfig.IsPublic,
		PublicPermission: string(n.ShareConfig.PublicPermission),
		CreatedAt:        wireTime(n.CreatedAt),
		UpdatedAt:        wireTime(n.UpdatedAt),
	}
	if n.FamilyID != "" {
		fid := n.FamilyID
		w.FamilyID = &fid
	}
	share := n.ShareConfig.Clone()
	w.ShareConfig = &share
	for _, a := range n.Attachments {
		w.Attachments = append(w.Attachments, wireAttachment{
			ID: flexID(a.ID), Name: a.Name, Type: a.Type, Size: a.Size, Data: a.Data, CreatedAt: wireTime(a.CreatedAt),
		})
	}
	for _, c := range n.Comments {
		w.Comments = append(w.Comments, wireComment{
			ID: flexID(c.ID), UserID: flexID(c.UserID), Username: c.Username,
			Content: c.Content, QuotedText: c.QuotedText, CreatedAt: wireTime(c.CreatedAt),
		})
	}
	return w
}

func (w wireNote) toModel() models.Note {
	n := models.Note{
		ID:          w.ID,
		Title:       w.Title,
		Content:     w.Content,
		FolderID:    w.FolderID,
		FamilyID:    deref(w.FamilyID),
		Attachments: []models.Attachment{},
		Comments:    []models.Comment{},
		ShareConfig: models.DefaultShareConfig(),
		CreatedAt:   int64(w.CreatedAt),
		UpdatedAt:   int64(w.UpdatedAt),
	}
	if w.ShareConfig != nil {
		n.ShareConfig = w.ShareConfig.Clone()
		if n.ShareConfig.Collaborators == nil {
			n.ShareConfig.Collaborators = []models.Collaborator{}
		}
	}
	n.ShareConfig.IsPublic = w.IsPublic || n.ShareConfig.IsPublic
	if p := models.Permission(w.PublicPermission); p.Valid() {
		n.ShareConfig.PublicPermission = p
	}
	if !n.ShareConfig.PublicPermission.Valid() {
		n.ShareConfig.PublicPermission = models.PermissionRead
	}
	for _, a := range w.Attachments {
		data := a.Data
		if data == "" {
			data = a.URL
		}
		n.Attachments = append(n.Attachments, models.Attachment{
			ID: string(a.ID), Name: a.Name, Type: a.Type, Size: a.Size, Data: data, CreatedAt: int64(a.CreatedAt),
		})
	}
	for _, c := range w.Comments {
		n.Comments = append(n.Comments, c.toModel())
	}
	return n
}

type wireEvent struct {
	ID            flexID   `json:"id,omitempty"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Date          wireTime `json:"date"`
	Type          string   `json:"type"`
	Recurrence    string   `json:"recurrence"`
	NotifyUsers   userList `json:"notifyUsers"`
	ShowCountdown bool     `json:"showCountdown"`
	IsSystem      bool     `json:"isSystem,omitempty"`
	FamilyID      *string  `json:"familyId,omitempty"`
}

func eventToWire(e models.CalendarEvent) wireEvent {
	w := wireEvent{
		Title:         e.Title,
		Description:   e.Description,
		Date:          wireTime(e.Date),
		Type:          string(e.Type),
		Recurrence:    string(e.Recurrence),
		NotifyUsers:   userList(e.NotifyUsers),
		ShowCountdown: e.ShowCountdown,
	}
	if e.FamilyID != "" {
		fid := e.FamilyID
		w.FamilyID = &fid
	}
	return w
}

func (w wireEvent) toModel() models.CalendarEvent {
	e := models.CalendarEvent{
		ID:            string(w.ID),
		Title:         w.Title,
		Description:   w.Description,
		Date:          int64(w.Date),
		Type:          models.CalendarType(w.Type),
		Recurrence:    models.Recurrence(w.Recurrence),
		NotifyUsers:   append([]string{}, w.NotifyUsers...),
		ShowCountdown: w.ShowCountdown,
		IsSystem:      w.IsSystem,
		FamilyID:      deref(w.FamilyID),
	}
	if e.Type == "" {
		e.Type = models.CalendarSolar
	}
	if e.Recurrence == "" {
		e.Recurrence = models.RecurrenceNone
	}
	return e
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
