package apiclient

import (
	"context"
	"fmt"

	"github.com/gonote/gonote/internal/models"
)

// FamilyCreated is the response of family creation.
type FamilyCreated struct {
	Message  string
	FamilyID string
	Folder   models.Folder
}

// CreateFamily creates a family with the caller as owner.
func (c *Client) CreateFamily(ctx context.Context, name string) (*FamilyCreated, error) {
	var resp struct {
		Message  string `json:"message"`
		FamilyID string `json:"familyId"`
		Folder   struct {
			ID       string  `json:"id"`
			Name     string  `json:"name"`
			Icon     string  `json:"icon"`
			FamilyID *string `json:"familyId"`
		} `json:"folder"`
	}
	if err := c.do(ctx, "POST", "/family/create", map[string]string{"name": name}, &resp); err != nil {
		return nil, err
	}
	if resp.FamilyID == "" {
		return nil, fmt.Errorf("create family: %w: no familyId", ErrMalformed)
	}
	return &FamilyCreated{
		Message:  resp.Message,
		FamilyID: resp.FamilyID,
		Folder: models.Folder{
			ID:       resp.Folder.ID,
			Name:     resp.Folder.Name,
			Icon:     resp.Folder.Icon,
			FamilyID: deref(resp.Folder.FamilyID),
		},
	}, nil
}

// JoinFamily joins an existing family by its id.
func (c *Client) JoinFamily(ctx context.Context, familyID string) error {
	return c.do(ctx, "POST", "/family/join", map[string]string{"familyId": familyID}, nil)
}

// LeaveFamily leaves the caller's family.
func (c *Client) LeaveFamily(ctx context.Context) error {
	return c.do(ctx, "POST", "/family/leave", struct{}{}, nil)
}

// FamilyMembers returns the caller's family id and its members. The id is
// empty when the caller has no family.
func (c *Client) FamilyMembers(ctx context.Context) (string, []models.FamilyMember, error) {
	var resp struct {
		FamilyID *string    `json:"familyId"`
		Members  []wireUser `json:"members"`
	}
	if err := c.do(ctx, "GET", "/family/members", nil, &resp); err != nil {
		return "", nil, err
	}
	members := make([]models.FamilyMember, 0, len(resp.Members))
	for _, u := range resp.Members {
		if u.ID == "" || u.Username == "" {
			return "", nil, fmt.Errorf("family members: %w: member without id or username", ErrMalformed)
		}
		members = append(members, models.FamilyMember{UserID: string(u.ID), Username: u.Username, Role: models.RoleMember})
	}
	return deref(resp.FamilyID), members, nil
}

// FamilyNotes lists the family pool.
func (c *Client) FamilyNotes(ctx context.Context) ([]models.Note, error) {
	return c.listNotes(ctx, "/family/notes")
}

// FamilyEvents lists the family's events.
func (c *Client) FamilyEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	return c.listEvents(ctx, "/family/events")
}
