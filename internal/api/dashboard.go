package api

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Dashboard fetches subjects, overall stats and today's classes concurrently.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		subjects, err := c.ListSubjects(gctx)
		d.Subjects = subjects
		return err
	})
	g.Go(func() error {
		stats, err := c.OverallStats(gctx)
		if stats != nil {
			d.Overall = *stats
		}
		return err
	})
	g.Go(func() error {
		today, err := c.TodayClasses(gctx)
		d.Today = today
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// SubjectDetail fetches a subject with its stats, records and timetable
// concurrently.
func (c *Client) SubjectDetail(ctx context.Context, subjectID int) (*SubjectDetail, error) {
	var d SubjectDetail
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		subject, err := c.GetSubject(gctx, subjectID)
		if subject != nil {
			d.Subject = *subject
		}
		return err
	})
	g.Go(func() error {
		stats, err := c.SubjectStats(gctx, subjectID)
		if stats != nil {
			d.Stats = *stats
		}
		return err
	})
	g.Go(func() error {
		records, err := c.SubjectRecords(gctx, subjectID)
		d.Records = records
		return err
	})
	g.Go(func() error {
		timetable, err := c.SubjectTimetable(gctx, subjectID)
		d.Timetable = timetable
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
