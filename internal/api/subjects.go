package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ListSubjects returns the user's subjects ordered by name.
func (c *Client) ListSubjects(ctx context.Context) ([]Subject, error) {
	subjects := []Subject{}
	if err := c.do(ctx, http.MethodGet, subjectsPath, nil, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// GetSubject returns one subject.
func (c *Client) GetSubject(ctx context.Context, id int) (*Subject, error) {
	var subject Subject
	if err := c.do(ctx, http.MethodGet, subjectPath(id), nil, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

// CreateSubject adds a subject. Names are unique per user.
func (c *Client) CreateSubject(ctx context.Context, in SubjectInput) (*Subject, error) {
	if in.Name == "" {
		return nil, errors.New("subject name is required")
	}
	var subject Subject
	if err := c.do(ctx, http.MethodPost, subjectsPath, in, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

// UpdateSubject replaces a subject's name and code.
func (c *Client) UpdateSubject(ctx context.Context, id int, in SubjectInput) (*Subject, error) {
	if in.Name == "" {
		return nil, errors.New("subject name is required")
	}
	var subject Subject
	if err := c.do(ctx, http.MethodPut, subjectPath(id), in, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

// DeleteSubject removes a subject with its attendance and timetable.
func (c *Client) DeleteSubject(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, subjectPath(id), nil, nil)
}

func subjectPath(id int) string {
	return fmt.Sprintf("%s%d/", subjectsPath, id)
}
