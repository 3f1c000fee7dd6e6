package storage

import (
	"context"
	"database/sql"
	"strings"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Periods

const createPeriod = `INSERT INTO periods (start_date, end_date, description)
VALUES (?, ?, ?)
RETURNING id, start_date, end_date, description`

type CreatePeriodParams struct {
	StartDate   string
	EndDate     string
	Description string
}

func (q *Queries) CreatePeriod(ctx context.Context, arg CreatePeriodParams) (Period, error) {
	row := q.db.QueryRowContext(ctx, createPeriod, arg.StartDate, arg.EndDate, arg.Description)
	var i Period
	err := row.Scan(&i.ID, &i.StartDate, &i.EndDate, &i.Description)
	return i, err
}

const getPeriod = `SELECT id, start_date, end_date, description FROM periods WHERE id = ?`

func (q *Queries) GetPeriod(ctx context.Context, id int64) (Period, error) {
	row := q.db.QueryRowContext(ctx, getPeriod, id)
	var i Period
	err := row.Scan(&i.ID, &i.StartDate, &i.EndDate, &i.Description)
	return i, err
}

const listPeriods = `SELECT id, start_date, end_date, description FROM periods
ORDER BY start_date, id`

func (q *Queries) ListPeriods(ctx context.Context) ([]Period, error) {
	return q.queryPeriods(ctx, listPeriods)
}

const getPeriodsCovering = `SELECT id, start_date, end_date, description FROM periods
WHERE start_date <= ? AND end_date >= ?
ORDER BY start_date, id`

func (q *Queries) GetPeriodsCovering(ctx context.Context, date string) ([]Period, error) {
	return q.queryPeriods(ctx, getPeriodsCovering, date, date)
}

func (q *Queries) queryPeriods(ctx context.Context, query string, args ...interface{}) ([]Period, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Period
	for rows.Next() {
		var i Period
		if err := rows.Scan(&i.ID, &i.StartDate, &i.EndDate, &i.Description); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updatePeriod = `UPDATE periods SET start_date = ?, end_date = ?, description = ? WHERE id = ?`

type UpdatePeriodParams struct {
	StartDate   string
	EndDate     string
	Description string
	ID          int64
}

func (q *Queries) UpdatePeriod(ctx context.Context, arg UpdatePeriodParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePeriod, arg.StartDate, arg.EndDate, arg.Description, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deletePeriod = `DELETE FROM periods WHERE id = ?`

func (q *Queries) DeletePeriod(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePeriod, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Subjects

const createSubject = `INSERT INTO subjects (period_id, short_name, name, final_score)
VALUES (?, ?, ?, ?)
RETURNING id, period_id, short_name, name, final_score`

type CreateSubjectParams struct {
	PeriodID   int64
	ShortName  string
	Name       string
	FinalScore sql.NullFloat64
}

func (q *Queries) CreateSubject(ctx context.Context, arg CreateSubjectParams) (Subject, error) {
	row := q.db.QueryRowContext(ctx, createSubject, arg.PeriodID, arg.ShortName, arg.Name, arg.FinalScore)
	var i Subject
	err := row.Scan(&i.ID, &i.PeriodID, &i.ShortName, &i.Name, &i.FinalScore)
	return i, err
}

const getSubject = `SELECT id, period_id, short_name, name, final_score FROM subjects WHERE id = ?`

func (q *Queries) GetSubject(ctx context.Context, id int64) (Subject, error) {
	row := q.db.QueryRowContext(ctx, getSubject, id)
	var i Subject
	err := row.Scan(&i.ID, &i.PeriodID, &i.ShortName, &i.Name, &i.FinalScore)
	return i, err
}

const listSubjectsByPeriod = `SELECT id, period_id, short_name, name, final_score FROM subjects
WHERE period_id = ?
ORDER BY id`

func (q *Queries) ListSubjectsByPeriod(ctx context.Context, periodID int64) ([]Subject, error) {
	return q.querySubjects(ctx, listSubjectsByPeriod, periodID)
}

const getSubjectsByShortName = `SELECT id, period_id, short_name, name, final_score FROM subjects
WHERE short_name = ?
ORDER BY id`

func (q *Queries) GetSubjectsByShortName(ctx context.Context, shortName string) ([]Subject, error) {
	return q.querySubjects(ctx, getSubjectsByShortName, shortName)
}

func (q *Queries) querySubjects(ctx context.Context, query string, args ...interface{}) ([]Subject, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Subject
	for rows.Next() {
		var i Subject
		if err := rows.Scan(&i.ID, &i.PeriodID, &i.ShortName, &i.Name, &i.FinalScore); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateSubject = `UPDATE subjects SET short_name = ?, name = ?, final_score = ? WHERE id = ?`

type UpdateSubjectParams struct {
	ShortName  string
	Name       string
	FinalScore sql.NullFloat64
	ID         int64
}

func (q *Queries) UpdateSubject(ctx context.Context, arg UpdateSubjectParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateSubject, arg.ShortName, arg.Name, arg.FinalScore, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteSubject = `DELETE FROM subjects WHERE id = ?`

func (q *Queries) DeleteSubject(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSubject, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteSubjectsByPeriod = `DELETE FROM subjects WHERE period_id = ?`

func (q *Queries) DeleteSubjectsByPeriod(ctx context.Context, periodID int64) error {
	_, err := q.db.ExecContext(ctx, deleteSubjectsByPeriod, periodID)
	return err
}

// Entries

const getEntry = `SELECT id, date, subject_id, dedicated_time FROM entries
WHERE subject_id = ? AND date = ?`

type GetEntryParams struct {
	SubjectID int64
	Date      string
}

func (q *Queries) GetEntry(ctx context.Context, arg GetEntryParams) (Entry, error) {
	row := q.db.QueryRowContext(ctx, getEntry, arg.SubjectID, arg.Date)
	var i Entry
	err := row.Scan(&i.ID, &i.Date, &i.SubjectID, &i.DedicatedTime)
	return i, err
}

const createEntry = `INSERT INTO entries (date, subject_id, dedicated_time) VALUES (?, ?, ?)`

type CreateEntryParams struct {
	Date          string
	SubjectID     int64
	DedicatedTime int64
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) error {
	_, err := q.db.ExecContext(ctx, createEntry, arg.Date, arg.SubjectID, arg.DedicatedTime)
	return err
}

const updateEntryTime = `UPDATE entries SET dedicated_time = ? WHERE id = ?`

func (q *Queries) UpdateEntryTime(ctx context.Context, id int64, dedicatedTime int64) error {
	_, err := q.db.ExecContext(ctx, updateEntryTime, dedicatedTime, id)
	return err
}

const deleteEntry = `DELETE FROM entries WHERE id = ?`

func (q *Queries) DeleteEntry(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteEntry, id)
	return err
}

const deleteEntriesBySubject = `DELETE FROM entries WHERE subject_id = ?`

func (q *Queries) DeleteEntriesBySubject(ctx context.Context, subjectID int64) error {
	_, err := q.db.ExecContext(ctx, deleteEntriesBySubject, subjectID)
	return err
}

const deleteEntriesByPeriod = `DELETE FROM entries
WHERE subject_id IN (SELECT id FROM subjects WHERE period_id = ?)`

func (q *Queries) DeleteEntriesByPeriod(ctx context.Context, periodID int64) error {
	_, err := q.db.ExecContext(ctx, deleteEntriesByPeriod, periodID)
	return err
}

// The IN list depends on the number of subjects, so the two queries below are built at call time.

type SubjectSum struct {
	SubjectID int64
	Total     int64
}

func (q *Queries) SumEntriesBySubject(ctx context.Context, subjectIDs []int64, from, to string) ([]SubjectSum, error) {
	query := `SELECT subject_id, SUM(dedicated_time) FROM entries
WHERE subject_id IN (` + placeholders(len(subjectIDs)) + `) AND date >= ? AND date <= ?
GROUP BY subject_id`
	rows, err := q.db.QueryContext(ctx, query, inArgs(subjectIDs, from, to)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SubjectSum
	for rows.Next() {
		var i SubjectSum
		if err := rows.Scan(&i.SubjectID, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) ListEntriesInRange(ctx context.Context, subjectIDs []int64, from, to string) ([]Entry, error) {
	query := `SELECT id, date, subject_id, dedicated_time FROM entries
WHERE subject_id IN (` + placeholders(len(subjectIDs)) + `) AND date >= ? AND date <= ?
ORDER BY date, subject_id`
	rows, err := q.db.QueryContext(ctx, query, inArgs(subjectIDs, from, to)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Entry
	for rows.Next() {
		var i Entry
		if err := rows.Scan(&i.ID, &i.Date, &i.SubjectID, &i.DedicatedTime); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func inArgs(ids []int64, rest ...interface{}) []interface{} {
	args := make([]interface{}, 0, len(ids)+len(rest))
	for _, id := range ids {
		args = append(args, id)
	}
	return append(args, rest...)
}
