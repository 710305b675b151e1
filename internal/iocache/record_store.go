package iocache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/schema"
)

// Table names of the record store.
const (
	runsTable      = "scrape_runs"
	hittingTable   = "hitting_leaders"
	pitchingTable  = "pitching_leaders"
	standingsTable = "team_standings"
	eventsTable    = "notable_events"
	qualityTable   = "data_quality_log"
)

// recordTables lists every table the record store owns, in creation order.
var recordTables = []string{runsTable, hittingTable, pitchingTable, standingsTable, eventsTable, qualityTable}

// RecordStore persists validated records, runs and the quality log.
type RecordStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RecordStore = &RecordStore{} // Compile-time check

// NewRecordStore opens the record store and migrates it to the latest schema.
// NoneBackend yields a store that accepts writes and returns empty queries.
func NewRecordStore(backend schema.DatabaseBackend, connStr string) (*RecordStore, error) {
	if backend == schema.NoneBackend {
		return &RecordStore{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetStoreDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize record store: %w", err)
	}
	if _, err := applyMigrations(db, backend, -1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create record tables: %w", err)
	}
	return &RecordStore{db: db, backend: backend}, nil
}

func (rs *RecordStore) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

func (rs *RecordStore) table(name string) string {
	return quoteTableName(name, rs.backend)
}

// rankColumn quotes rank, which MySQL reserves for the window function.
func (rs *RecordStore) rankColumn() string {
	if rs.backend == schema.MySQLBackend {
		return "`rank`"
	}
	return "rank"
}

func (rs *RecordStore) statColumns() []string {
	return []string{
		"year", "player_name", "stat_category", rs.rankColumn(), "team", "stat_value",
		"quality_score", "quality_level", "team_standardized", "stat_category_corrected", "run_id",
	}
}

// BeginRun records the start of a scrape run and returns its ID.
func (rs *RecordStore) BeginRun(startTime time.Time, years []int, configParams map[string]any) (int64, error) {
	if rs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}
	args := []any{uuid.NewString(), formatTime(startTime, rs.backend), joinYears(years), string(configJSON)}

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, years, config_params) VALUES ($1, $2, $3, $4) RETURNING run_id`, rs.table(runsTable))
		err = rs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, years, config_params) VALUES (?, ?, ?, ?)`, rs.table(runsTable))
		var result sql.Result
		result, err = rs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert scrape run: %w", err)
	}
	return runID, nil
}

// EndRun stamps the run with its end time, duration and per-dataset counts.
func (rs *RecordStore) EndRun(runID int64, endTime time.Time, counts map[schema.Dataset]int) error {
	if rs.disabled() {
		return nil
	}

	var start timeScanner
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, rs.table(runsTable), placeholder(rs.backend, 1))
	if err := rs.db.QueryRow(query, runID).Scan(&start); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	update := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, hitting_count = %s, pitching_count = %s,
		standings_count = %s, events_count = %s WHERE run_id = %s`, rs.table(runsTable),
		placeholder(rs.backend, 1), placeholder(rs.backend, 2), placeholder(rs.backend, 3), placeholder(rs.backend, 4),
		placeholder(rs.backend, 5), placeholder(rs.backend, 6), placeholder(rs.backend, 7))
	_, err := rs.db.Exec(update,
		formatTime(endTime, rs.backend), endTime.Sub(start.t).Milliseconds(),
		counts[schema.HittingDataset], counts[schema.PitchingDataset],
		counts[schema.StandingsDataset], counts[schema.EventsDataset], runID)
	if err != nil {
		return fmt.Errorf("failed to update scrape run: %w", err)
	}
	return nil
}

// SaveBatch upserts the records of a batch in a single transaction. A record seen in
// an earlier run is overwritten and attributed to this run.
func (rs *RecordStore) SaveBatch(runID int64, batch schema.Batch) error {
	if rs.disabled() {
		return nil
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := rs.saveStats(tx, hittingTable, runID, batch.Hitting); err != nil {
		return err
	}
	if err := rs.saveStats(tx, pitchingTable, runID, batch.Pitching); err != nil {
		return err
	}
	if err := rs.saveStandings(tx, runID, batch.Standings); err != nil {
		return err
	}
	if err := rs.saveEvents(tx, runID, batch.Events); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

func (rs *RecordStore) saveStats(tx *sql.Tx, table string, runID int64, records []schema.StatRecord) error {
	if len(records) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(upsertQuery(rs.backend, table, rs.statColumns(),
		[]string{"year", "player_name", "stat_category"}))
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		_, err := stmt.Exec(r.Year, r.PlayerName, string(r.StatCategory), r.Rank, r.Team, r.StatValue,
			r.QualityScore, string(r.QualityLevel), r.TeamStandardized, r.StatCategoryCorrected, runID)
		if err != nil {
			return fmt.Errorf("failed to insert %s record %s: %w", table, r.PlayerName, err)
		}
	}
	return nil
}

func (rs *RecordStore) saveStandings(tx *sql.Tx, runID int64, records []schema.StandingsRecord) error {
	if len(records) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(upsertQuery(rs.backend, standingsTable,
		[]string{"year", "team_name", "wins", "losses", "win_pct", "run_id"},
		[]string{"year", "team_name"}))
	if err != nil {
		return fmt.Errorf("failed to prepare standings insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.Exec(r.Year, r.TeamName, r.Wins, r.Losses, r.WinPct, runID); err != nil {
			return fmt.Errorf("failed to insert standings for %s: %w", r.TeamName, err)
		}
	}
	return nil
}

func (rs *RecordStore) saveEvents(tx *sql.Tx, runID int64, records []schema.EventRecord) error {
	if len(records) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(upsertQuery(rs.backend, eventsTable,
		[]string{"year", "description_hash", "description", "event_type", "participants", "run_id"},
		[]string{"year", "description_hash"}))
	if err != nil {
		return fmt.Errorf("failed to prepare events insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		participants, err := json.Marshal(r.Participants)
		if err != nil {
			return fmt.Errorf("failed to marshal participants: %w", err)
		}
		if _, err := stmt.Exec(r.Year, descriptionHash(r.Description), r.Description, string(r.EventType), string(participants), runID); err != nil {
			return fmt.Errorf("failed to insert event %s: %w", r.RecordID(), err)
		}
	}
	return nil
}

// SaveIssues appends quality issues to the log of a run.
func (rs *RecordStore) SaveIssues(runID int64, issues []schema.QualityIssue) error {
	if rs.disabled() || len(issues) == 0 {
		return nil
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`INSERT INTO %s (run_id, record_id, field, issue_type, description, severity, suggested_fix, logged_at)
		VALUES (%s)`, rs.table(qualityTable), placeholders(rs.backend, 8))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare quality log insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := formatTime(time.Now(), rs.backend)
	for _, is := range issues {
		_, err := stmt.Exec(runID, is.RecordID, is.Field, string(is.IssueType), is.Description,
			string(is.Severity), nullString(is.SuggestedFix), now)
		if err != nil {
			return fmt.Errorf("failed to insert quality issue for %s: %w", is.RecordID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quality log: %w", err)
	}
	return nil
}

// QueryLeaders returns leader records ordered by year, category and rank of value.
// ERA ranks ascending, every other category descending.
func (rs *RecordStore) QueryLeaders(filter schema.LeaderFilter) ([]schema.StatRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	table := hittingTable
	if filter.Dataset == schema.PitchingDataset {
		table = pitchingTable
	}

	where := &whereClause{backend: rs.backend}
	if filter.Category != "" {
		where.add("stat_category = ?", string(filter.Category))
	}
	if filter.Year > 0 {
		where.add("year = ?", filter.Year)
	}
	if filter.Team != "" {
		where.add("LOWER(team) LIKE ?", "%"+strings.ToLower(filter.Team)+"%")
	}

	query := fmt.Sprintf(`SELECT year, %s, player_name, team, stat_category, stat_value, quality_score, quality_level,
		team_standardized, stat_category_corrected FROM %s%s
		ORDER BY year, stat_category, CASE WHEN stat_category = 'ERA' THEN stat_value ELSE -stat_value END%s`,
		rs.rankColumn(), rs.table(table), where, limitClause(filter.Limit))

	rows, err := rs.db.Query(query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.StatRecord
	for rows.Next() {
		var r schema.StatRecord
		var rank sql.NullInt64
		var category, level string
		if err := rows.Scan(&r.Year, &rank, &r.PlayerName, &r.Team, &category, &r.StatValue, &r.QualityScore,
			&level, &r.TeamStandardized, &r.StatCategoryCorrected); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		if rank.Valid {
			n := int(rank.Int64)
			r.Rank = &n
		}
		r.StatCategory = schema.StatCategory(category)
		r.QualityLevel = schema.QualityLevel(level)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}
	return out, nil
}

// QueryStandings returns standings for a year (all years when year is 0), best record first.
func (rs *RecordStore) QueryStandings(year int, limit int) ([]schema.StandingsRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	where := &whereClause{backend: rs.backend}
	if year > 0 {
		where.add("year = ?", year)
	}
	query := fmt.Sprintf(`SELECT year, team_name, wins, losses, win_pct FROM %s%s ORDER BY year, win_pct DESC, team_name%s`,
		rs.table(standingsTable), where, limitClause(limit))

	rows, err := rs.db.Query(query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.StandingsRecord
	for rows.Next() {
		var r schema.StandingsRecord
		if err := rows.Scan(&r.Year, &r.TeamName, &r.Wins, &r.Losses, &r.WinPct); err != nil {
			return nil, fmt.Errorf("failed to scan standings row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standings: %w", err)
	}
	return out, nil
}

// QueryEvents returns events matching the filter in year order.
func (rs *RecordStore) QueryEvents(filter schema.EventFilter) ([]schema.EventRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	where := &whereClause{backend: rs.backend}
	if filter.Year > 0 {
		where.add("year = ?", filter.Year)
	}
	if filter.EventType != "" {
		where.add("event_type = ?", string(filter.EventType))
	}
	query := fmt.Sprintf(`SELECT year, description, event_type, participants FROM %s%s ORDER BY year, event_type, description%s`,
		rs.table(eventsTable), where, limitClause(filter.Limit))

	rows, err := rs.db.Query(query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.EventRecord
	for rows.Next() {
		var r schema.EventRecord
		var eventType string
		var participants sql.NullString
		if err := rows.Scan(&r.Year, &r.Description, &eventType, &participants); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		r.EventType = schema.EventType(eventType)
		if participants.Valid && participants.String != "" {
			if err := json.Unmarshal([]byte(participants.String), &r.Participants); err != nil {
				return nil, fmt.Errorf("failed to decode participants: %w", err)
			}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return out, nil
}

// QueryIssues returns the quality log of a run. runID 0 selects the latest run and
// schema.AllRuns selects every run.
func (rs *RecordStore) QueryIssues(runID int64, limit int) ([]schema.QualityIssue, error) {
	if rs.disabled() {
		return nil, nil
	}

	where := &whereClause{backend: rs.backend}
	switch {
	case runID > 0:
		where.add("run_id = ?", runID)
	case runID == 0:
		where.add(fmt.Sprintf("run_id = (SELECT MAX(run_id) FROM %s)", rs.table(qualityTable)))
	}
	query := fmt.Sprintf(`SELECT record_id, field, issue_type, description, severity, suggested_fix FROM %s%s ORDER BY issue_id%s`,
		rs.table(qualityTable), where, limitClause(limit))

	rows, err := rs.db.Query(query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quality log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.QualityIssue
	for rows.Next() {
		var is schema.QualityIssue
		var issueType, severity string
		var fix sql.NullString
		if err := rows.Scan(&is.RecordID, &is.Field, &issueType, &is.Description, &severity, &fix); err != nil {
			return nil, fmt.Errorf("failed to scan quality issue: %w", err)
		}
		is.IssueType = schema.IssueType(issueType)
		is.Severity = schema.Severity(severity)
		is.SuggestedFix = fix.String
		out = append(out, is)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quality log: %w", err)
	}
	return out, nil
}

// QueryLeaderComparison pairs each season's top home run hitter with its ERA leader.
func (rs *RecordStore) QueryLeaderComparison(limit int) ([]schema.LeaderComparison, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`
		WITH hr AS (
			SELECT year, player_name, team, stat_value,
				ROW_NUMBER() OVER (PARTITION BY year ORDER BY stat_value DESC, player_name) AS rn
			FROM %s WHERE stat_category = %s
		), era AS (
			SELECT year, player_name, team, stat_value,
				ROW_NUMBER() OVER (PARTITION BY year ORDER BY stat_value ASC, player_name) AS rn
			FROM %s WHERE stat_category = %s
		)
		SELECT hr.year, hr.player_name, hr.stat_value, era.player_name, era.stat_value, hr.team, era.team
		FROM hr JOIN era ON era.year = hr.year AND era.rn = 1
		WHERE hr.rn = 1
		ORDER BY hr.year%s`,
		rs.table(hittingTable), placeholder(rs.backend, 1),
		rs.table(pitchingTable), placeholder(rs.backend, 2),
		limitClause(limit))

	rows, err := rs.db.Query(query, string(schema.HomeRuns), string(schema.ERA))
	if err != nil {
		return nil, fmt.Errorf("failed to query leader comparison: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.LeaderComparison
	for rows.Next() {
		var c schema.LeaderComparison
		if err := rows.Scan(&c.Year, &c.HRLeader, &c.HomeRuns, &c.ERALeader, &c.ERA, &c.HRLeaderTeam, &c.ERALeaderTeam); err != nil {
			return nil, fmt.Errorf("failed to scan leader comparison: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leader comparison: %w", err)
	}
	return out, nil
}

// QueryQualitySummary counts stored leader records per dataset and quality level.
func (rs *RecordStore) QueryQualitySummary() ([]schema.QualityLevelCount, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT dataset, quality_level, COUNT(*), AVG(quality_score) FROM (
			SELECT '%s' AS dataset, quality_level, quality_score FROM %s
			UNION ALL
			SELECT '%s' AS dataset, quality_level, quality_score FROM %s
		) leaders
		GROUP BY dataset, quality_level
		ORDER BY dataset, quality_level`,
		schema.HittingDataset, rs.table(hittingTable),
		schema.PitchingDataset, rs.table(pitchingTable))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query quality summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.QualityLevelCount
	for rows.Next() {
		var c schema.QualityLevelCount
		var dataset, level string
		if err := rows.Scan(&dataset, &level, &c.Records, &c.AvgScore); err != nil {
			return nil, fmt.Errorf("failed to scan quality summary: %w", err)
		}
		c.Dataset = schema.Dataset(dataset)
		c.QualityLevel = schema.QualityLevel(level)
		c.AvgScore = schema.RoundTo(c.AvgScore, 1)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quality summary: %w", err)
	}
	return out, nil
}

// QueryRuns returns the most recent scrape runs first.
func (rs *RecordStore) QueryRuns(limit int) ([]schema.RunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, start_time, end_time, years,
		hitting_count, pitching_count, standings_count, events_count
		FROM %s ORDER BY run_id DESC%s`, rs.table(runsTable), limitClause(limit))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scrape runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.RunRecord
	for rows.Next() {
		var r schema.RunRecord
		var start, end timeScanner
		var hitting, pitching, standings, events int
		if err := rows.Scan(&r.RunID, &r.RunUUID, &start, &end, &r.Years,
			&hitting, &pitching, &standings, &events); err != nil {
			return nil, fmt.Errorf("failed to scan scrape run: %w", err)
		}
		r.StartTime = start.t
		if end.valid {
			t := end.t
			r.EndTime = &t
		}
		r.Counts = map[string]int{
			string(schema.HittingDataset):   hitting,
			string(schema.PitchingDataset):  pitching,
			string(schema.StandingsDataset): standings,
			string(schema.EventsDataset):    events,
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scrape runs: %w", err)
	}
	return out, nil
}

// GetStatus returns run totals and per-table row counts.
func (rs *RecordStore) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(rs.backend),
		Connected: rs.db != nil,
		TableRows: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	row := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", rs.table(runsTable)))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var last, oldest timeScanner
		row = rs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", rs.table(runsTable)))
		if err := row.Scan(&status.LastRunID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		row = rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", rs.table(runsTable)))
		if err := row.Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.LastRunTime = last.t
		status.OldestRunTime = oldest.t
	}

	for _, table := range recordTables {
		var count int64
		row = rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", rs.table(table)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableRows[table] = count
	}
	return status, nil
}

// Close closes the underlying connection.
func (rs *RecordStore) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ",")
}

func descriptionHash(description string) string {
	sum := sha256.Sum256([]byte(description))
	return hex.EncodeToString(sum[:])
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
