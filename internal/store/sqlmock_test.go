package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestStoresSurfaceDatabaseErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		mock func(mock sqlmock.Sqlmock)
		call func(db *sql.DB) error
	}{
		{
			name: "host insert",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO hosts`).
					WithArgs("host@example.com", "abc123").
					WillReturnError(sql.ErrConnDone)
			},
			call: func(db *sql.DB) error {
				_, err := NewHostStore(db).Create(ctx, "host@example.com", "abc123")
				return err
			},
		},
		{
			name: "host redeem",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE hosts SET token_used = 1`).
					WithArgs("host@example.com", "abc123").
					WillReturnError(sql.ErrConnDone)
			},
			call: func(db *sql.DB) error {
				_, err := NewHostStore(db).Redeem(ctx, "host@example.com", "abc123")
				return err
			},
		},
		{
			name: "event by slug",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM events WHERE slug = \?`).
					WithArgs("party").
					WillReturnError(sql.ErrConnDone)
			},
			call: func(db *sql.DB) error {
				_, err := NewEventStore(db).GetBySlug(ctx, "party")
				return err
			},
		},
		{
			name: "event deactivate",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET is_active = 0`).
					WithArgs(int64(7), "host@x.com").
					WillReturnError(sql.ErrConnDone)
			},
			call: func(db *sql.DB) error {
				_, err := NewEventStore(db).Deactivate(ctx, 7, "host@x.com")
				return err
			},
		},
		{
			name: "rsvp list",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM rsvps WHERE event_id = \?`).
					WithArgs(int64(7)).
					WillReturnError(sql.ErrConnDone)
			},
			call: func(db *sql.DB) error {
				_, err := NewRSVPStore(db).ListByEvent(ctx, 7)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)

			err = tt.call(db)
			require.ErrorIs(t, err, sql.ErrConnDone)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
