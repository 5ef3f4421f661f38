// Package testutil provides database, Redis and fixture helpers for tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

var fixtureSeq atomic.Int64

// UniqueEmail returns an address that is unique within the test binary.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d-%d@example.com", prefix, time.Now().UnixNano(), fixtureSeq.Add(1))
}

// InsertUser inserts an active user with the given role and returns its id.
func InsertUser(t testing.TB, db *sql.DB, role string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id string
	err := db.QueryRowContext(ctx, `
		INSERT INTO users (email, first_name, last_name, role)
		VALUES ($1, 'Test', 'User', $2)
		RETURNING id`, UniqueEmail(role), role).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

// EmployerFixture identifies an employer and its owning user.
type EmployerFixture struct {
	UserID     string
	EmployerID string
}

// InsertEmployer inserts an employer user plus its company with the given verification status.
func InsertEmployer(t testing.TB, db *sql.DB, status string) EmployerFixture {
	t.Helper()
	userID := InsertUser(t, db, "employer")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id string
	err := db.QueryRowContext(ctx, `
		INSERT INTO employers (user_id, company_name, verification_status)
		VALUES ($1, $2, $3)
		RETURNING id`, userID, "Clinic "+userID[:8], status).Scan(&id)
	if err != nil {
		t.Fatalf("insert employer: %v", err)
	}
	return EmployerFixture{UserID: userID, EmployerID: id}
}

// JobFixture holds the fields InsertJob writes.
type JobFixture struct {
	Title    string
	Location string
	Status   string
	Skills   []string
	Deadline *time.Time
}

// InsertJob inserts a job for employerID and returns its id.
// Zero fields default to an open "Staff Nurse" job in Pune.
func InsertJob(t testing.TB, db *sql.DB, employerID string, f JobFixture) string {
	t.Helper()
	if f.Title == "" {
		f.Title = "Staff Nurse"
	}
	if f.Location == "" {
		f.Location = "Pune"
	}
	if f.Status == "" {
		f.Status = "open"
	}
	if f.Skills == nil {
		f.Skills = []string{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id string
	err := db.QueryRowContext(ctx, `
		INSERT INTO jobs (employer_id, title, description, location, employment_type, skills, status, deadline)
		VALUES ($1, $2, 'Test description', $3, 'full_time', $4, $5, $6)
		RETURNING id`, employerID, f.Title, f.Location, f.Skills, f.Status, f.Deadline).Scan(&id)
	if err != nil {
		t.Fatalf("insert job: %v", err)
	}
	return id
}
