package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alphabot-ai/skillswap/internal/model"
	"github.com/alphabot-ai/skillswap/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(path))
	if err != nil {
		return nil, err
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// withPragmas puts the pragmas in the DSN so every pooled connection gets them.
func withPragmas(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrations is an ordered list of SQL migrations.
// Each migration runs exactly once, tracked by schema_version table.
var migrations = []string{
	// Migration 1: Initial schema
	`
CREATE TABLE IF NOT EXISTS accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	display_name TEXT NOT NULL,
	email TEXT,
	location TEXT,
	is_public INTEGER NOT NULL DEFAULT 1,
	is_banned INTEGER NOT NULL DEFAULT 0,
	role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
	created_at INTEGER NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_display_name ON accounts(display_name);
CREATE INDEX IF NOT EXISTS idx_accounts_created_at ON accounts(created_at DESC);

CREATE TABLE IF NOT EXISTS account_keys (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id INTEGER NOT NULL,
	alg TEXT NOT NULL,
	public_key TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	FOREIGN KEY(account_id) REFERENCES accounts(id)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_account_keys_unique ON account_keys(alg, public_key);

CREATE TABLE IF NOT EXISTS auth_challenges (
	challenge TEXT PRIMARY KEY,
	alg TEXT NOT NULL,
	expires_at INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS auth_tokens (
	jti TEXT PRIMARY KEY,
	account_id INTEGER,
	key_id INTEGER,
	expires_at INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS skills (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('offered', 'wanted')),
	is_approved INTEGER NOT NULL DEFAULT 1,
	account_id INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	FOREIGN KEY(account_id) REFERENCES accounts(id)
);
CREATE INDEX IF NOT EXISTS idx_skills_account_id ON skills(account_id);

CREATE TABLE IF NOT EXISTS swap_requests (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sender_id INTEGER NOT NULL,
	receiver_id INTEGER NOT NULL,
	skill_offered TEXT NOT NULL,
	skill_requested TEXT NOT NULL,
	message TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at INTEGER NOT NULL,
	FOREIGN KEY(sender_id) REFERENCES accounts(id),
	FOREIGN KEY(receiver_id) REFERENCES accounts(id)
);
CREATE INDEX IF NOT EXISTS idx_swap_requests_sender ON swap_requests(sender_id);
CREATE INDEX IF NOT EXISTS idx_swap_requests_receiver ON swap_requests(receiver_id);

CREATE TABLE IF NOT EXISTS ratings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	swap_id INTEGER NOT NULL,
	rater_id INTEGER NOT NULL,
	rated_id INTEGER NOT NULL,
	score INTEGER NOT NULL CHECK (score BETWEEN 1 AND 5),
	comment TEXT,
	created_at INTEGER NOT NULL,
	FOREIGN KEY(swap_id) REFERENCES swap_requests(id) ON DELETE CASCADE
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_ratings_unique ON ratings(swap_id, rater_id);

CREATE TABLE IF NOT EXISTS platform_messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	message TEXT NOT NULL,
	type TEXT NOT NULL,
	created_by INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS admin_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	admin_id INTEGER NOT NULL,
	action TEXT NOT NULL CHECK (action IN ('BAN_USER', 'UNBAN_USER', 'APPROVE_SKILL', 'REJECT_SKILL', 'SEND_MESSAGE')),
	target_type TEXT NOT NULL CHECK (target_type IN ('user', 'skill', 'platform_message')),
	target_id INTEGER NOT NULL,
	details TEXT,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_admin_logs_target ON admin_logs(target_type, target_id);
`,
	// Future migrations go here:
	// Migration 2: `ALTER TABLE ...`,
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return err
	}

	var currentVersion int
	row := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	for i := currentVersion; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}

	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&sqlTx{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type sqlTx struct {
	q queryer
}

func (t *sqlTx) SetAccountBanned(ctx context.Context, accountID int64, banned bool) (model.Account, error) {
	res, err := t.q.ExecContext(ctx, `UPDATE accounts SET is_banned = ? WHERE id = ?`, boolToInt(banned), accountID)
	if err != nil {
		return model.Account{}, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return model.Account{}, store.ErrNotFound
	}
	return getAccount(ctx, t.q, accountID)
}

func (t *sqlTx) SetSkillApproved(ctx context.Context, skillID int64, approved bool) (model.Skill, error) {
	res, err := t.q.ExecContext(ctx, `UPDATE skills SET is_approved = ? WHERE id = ?`, boolToInt(approved), skillID)
	if err != nil {
		return model.Skill{}, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return model.Skill{}, store.ErrNotFound
	}
	return getSkill(ctx, t.q, skillID)
}

func (t *sqlTx) CreatePlatformMessage(ctx context.Context, msg *model.PlatformMessage) (int64, error) {
	res, err := t.q.ExecContext(ctx, `
INSERT INTO platform_messages (title, message, type, created_by, created_at)
VALUES (?, ?, ?, ?, ?)
`, msg.Title, msg.Body, string(msg.Type), msg.CreatedBy, msg.CreatedAt.Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (t *sqlTx) AppendAudit(ctx context.Context, entry *model.AuditEntry) (int64, error) {
	if err := entry.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrInvalidAudit, err)
	}
	res, err := t.q.ExecContext(ctx, `
INSERT INTO admin_logs (admin_id, action, target_type, target_id, details, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, entry.AdminID, string(entry.Action), string(entry.TargetType), entry.TargetID, nullIfEmpty(entry.Detail), entry.CreatedAt.Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) CreateAccount(ctx context.Context, account *model.Account, key *model.AccountKey) (accountID int64, keyID int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	role := account.Role
	if role == "" {
		role = model.RoleUser
	}
	res, err := tx.ExecContext(ctx, `
INSERT INTO accounts (display_name, email, location, is_public, is_banned, role, created_at)
VALUES (?, ?, ?, ?, 0, ?, ?)
`, account.DisplayName, nullIfEmpty(account.Email), nullIfEmpty(account.Location), boolToInt(account.Public), string(role), account.CreatedAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, 0, store.ErrDuplicateName
		}
		return 0, 0, err
	}
	accountID, err = res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}
	res, err = tx.ExecContext(ctx, `
INSERT INTO account_keys (account_id, alg, public_key, created_at)
VALUES (?, ?, ?, ?)
`, accountID, key.Alg, key.PublicKey, key.CreatedAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			err = store.ErrDuplicateKey
		}
		return 0, 0, err
	}
	keyID, err = res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, 0, err
	}
	return accountID, keyID, nil
}

const accountColumns = `id, display_name, email, location, is_public, is_banned, role, created_at`

func getAccount(ctx context.Context, q queryer, id int64) (model.Account, error) {
	row := q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (s *Store) GetAccount(ctx context.Context, id int64) (model.Account, error) {
	return getAccount(ctx, s.db, id)
}

func (s *Store) GetAccountRole(ctx context.Context, id int64) (model.Role, error) {
	var role string
	err := s.db.QueryRowContext(ctx, `SELECT role FROM accounts WHERE id = ?`, id).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrNotFound
		}
		return "", err
	}
	return model.Role(role), nil
}

func (s *Store) SetAccountRole(ctx context.Context, id int64, role model.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE accounts SET role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) FindAccountKey(ctx context.Context, alg, publicKey string) (model.AccountKey, *model.Account, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, account_id, alg, public_key, created_at
FROM account_keys
WHERE alg = ? AND public_key = ?
LIMIT 1
`, alg, publicKey)
	var k model.AccountKey
	var created int64
	if err := row.Scan(&k.ID, &k.AccountID, &k.Alg, &k.PublicKey, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AccountKey{}, nil, store.ErrNotFound
		}
		return model.AccountKey{}, nil, err
	}
	k.CreatedAt = time.Unix(created, 0)
	account, err := s.GetAccount(ctx, k.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return k, nil, nil
		}
		return model.AccountKey{}, nil, err
	}
	return k, &account, nil
}

const skillColumns = `s.id, s.name, s.type, s.is_approved, s.account_id, a.display_name, s.created_at`

func getSkill(ctx context.Context, q queryer, id int64) (model.Skill, error) {
	row := q.QueryRowContext(ctx, `
SELECT `+skillColumns+`
FROM skills s
LEFT JOIN accounts a ON a.id = s.account_id
WHERE s.id = ?
`, id)
	return scanSkill(row)
}

func (s *Store) CreateSkill(ctx context.Context, skill *model.Skill) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO skills (name, type, is_approved, account_id, created_at)
VALUES (?, ?, ?, ?, ?)
`, skill.Name, string(skill.Type), boolToInt(skill.Approved), skill.AccountID, skill.CreatedAt.Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetSkill(ctx context.Context, id int64) (model.Skill, error) {
	return getSkill(ctx, s.db, id)
}

func (s *Store) ListSkillsByAccount(ctx context.Context, accountID int64) ([]model.Skill, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+skillColumns+`
FROM skills s
LEFT JOIN accounts a ON a.id = s.account_id
WHERE s.account_id = ?
ORDER BY s.created_at DESC, s.id DESC
`, accountID)
	if err != nil {
		return nil, err
	}
	return collectSkills(rows)
}

func (s *Store) ListPublicSkills(ctx context.Context, opts store.SkillListOpts) ([]model.Skill, error) {
	limit := limitOr(opts.Limit, 100)
	query := `
SELECT ` + skillColumns + `
FROM skills s
JOIN accounts a ON a.id = s.account_id
WHERE s.is_approved = 1 AND a.is_public = 1 AND a.is_banned = 0`
	args := []any{}
	if opts.Type != "" {
		query += ` AND s.type = ?`
		args = append(args, string(opts.Type))
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		query += ` AND s.name LIKE ?`
		args = append(args, "%"+q+"%")
	}
	query += ` ORDER BY s.created_at DESC, s.id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectSkills(rows)
}

func (s *Store) DeleteSkill(ctx context.Context, id, accountID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM skills WHERE id = ? AND account_id = ?`, id, accountID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

const swapSelect = `
SELECT sr.id, sr.sender_id, sender.display_name, sr.receiver_id, receiver.display_name,
	sr.skill_offered, sr.skill_requested, sr.message, sr.status, sr.created_at
FROM swap_requests sr
LEFT JOIN accounts sender ON sender.id = sr.sender_id
LEFT JOIN accounts receiver ON receiver.id = sr.receiver_id`

func (s *Store) CreateSwap(ctx context.Context, swap *model.SwapRequest) (int64, error) {
	status := swap.Status
	if status == "" {
		status = model.SwapPending
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO swap_requests (sender_id, receiver_id, skill_offered, skill_requested, message, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, swap.SenderID, swap.ReceiverID, swap.SkillOffered, swap.SkillRequested, nullIfEmpty(swap.Message), string(status), swap.CreatedAt.Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetSwap(ctx context.Context, id int64) (model.SwapRequest, error) {
	row := s.db.QueryRowContext(ctx, swapSelect+` WHERE sr.id = ?`, id)
	return scanSwap(row)
}

func (s *Store) ListSwapsByAccount(ctx context.Context, accountID int64) ([]model.SwapRequest, error) {
	rows, err := s.db.QueryContext(ctx, swapSelect+`
WHERE sr.sender_id = ? OR sr.receiver_id = ?
ORDER BY sr.created_at DESC, sr.id DESC
`, accountID, accountID)
	if err != nil {
		return nil, err
	}
	return collectSwaps(rows)
}

func (s *Store) ListSwaps(ctx context.Context) ([]model.SwapRequest, error) {
	rows, err := s.db.QueryContext(ctx, swapSelect+` ORDER BY sr.created_at DESC, sr.id DESC`)
	if err != nil {
		return nil, err
	}
	return collectSwaps(rows)
}

func (s *Store) UpdateSwapStatus(ctx context.Context, id, receiverID int64, status model.SwapStatus) (model.SwapRequest, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE swap_requests SET status = ? WHERE id = ? AND receiver_id = ?
`, string(status), id, receiverID)
	if err != nil {
		return model.SwapRequest{}, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return model.SwapRequest{}, store.ErrNotFound
	}
	return s.GetSwap(ctx, id)
}

func (s *Store) DeleteSwap(ctx context.Context, id, accountID int64) error {
	res, err := s.db.ExecContext(ctx, `
DELETE FROM swap_requests WHERE id = ? AND (sender_id = ? OR receiver_id = ?)
`, id, accountID, accountID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateRating(ctx context.Context, rating *model.Rating) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO ratings (swap_id, rater_id, rated_id, score, comment, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, rating.SwapID, rating.RaterID, rating.RatedID, rating.Score, nullIfEmpty(rating.Comment), rating.CreatedAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrDuplicateRating
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) ListRatingsForAccount(ctx context.Context, ratedID int64) ([]model.Rating, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.swap_id, r.rater_id, a.display_name, r.rated_id, r.score, r.comment, r.created_at
FROM ratings r
LEFT JOIN accounts a ON a.id = r.rater_id
WHERE r.rated_id = ?
ORDER BY r.created_at DESC, r.id DESC
`, ratedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []model.Rating
	for rows.Next() {
		var r model.Rating
		var raterName, comment sql.NullString
		var created int64
		if err := rows.Scan(&r.ID, &r.SwapID, &r.RaterID, &raterName, &r.RatedID, &r.Score, &comment, &created); err != nil {
			return nil, err
		}
		r.RaterName = raterName.String
		r.Comment = comment.String
		r.CreatedAt = time.Unix(created, 0)
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

func (s *Store) ListPlatformMessages(ctx context.Context, limit int) ([]model.PlatformMessage, error) {
	limit = limitOr(limit, 100)
	rows, err := s.db.QueryContext(ctx, `
SELECT id, title, message, type, created_by, created_at
FROM platform_messages
ORDER BY created_at DESC, id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.PlatformMessage
	for rows.Next() {
		var m model.PlatformMessage
		var typ string
		var created int64
		if err := rows.Scan(&m.ID, &m.Title, &m.Body, &typ, &m.CreatedBy, &created); err != nil {
			return nil, err
		}
		m.Type = model.MessageType(typ)
		m.CreatedAt = time.Unix(created, 0)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *Store) ListAudit(ctx context.Context, opts store.AuditListOpts) ([]model.AuditEntry, error) {
	limit := limitOr(opts.Limit, 500)
	query := `
SELECT id, admin_id, action, target_type, target_id, details, created_at
FROM admin_logs
WHERE 1 = 1`
	args := []any{}
	if opts.TargetType != "" {
		query += ` AND target_type = ?`
		args = append(args, string(opts.TargetType))
	}
	if opts.TargetID != 0 {
		query += ` AND target_id = ?`
		args = append(args, opts.TargetID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var action, target string
		var detail sql.NullString
		var created int64
		if err := rows.Scan(&e.ID, &e.AdminID, &action, &target, &e.TargetID, &detail, &created); err != nil {
			return nil, err
		}
		if e.Action, err = model.ParseAuditAction(action); err != nil {
			return nil, err
		}
		if e.TargetType, err = model.ParseAuditTarget(target); err != nil {
			return nil, err
		}
		e.Detail = detail.String
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) CreateChallenge(ctx context.Context, c model.Challenge) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO auth_challenges (challenge, alg, expires_at, created_at)
VALUES (?, ?, ?, ?)
`, c.Challenge, c.Alg, c.ExpiresAt.Unix(), time.Now().Unix())
	return err
}

func (s *Store) ConsumeChallenge(ctx context.Context, challenge string) (model.Challenge, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT challenge, alg, expires_at
FROM auth_challenges
WHERE challenge = ?
`, challenge)
	var c model.Challenge
	var expires int64
	if err := row.Scan(&c.Challenge, &c.Alg, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Challenge{}, store.ErrNotFound
		}
		return model.Challenge{}, err
	}
	c.ExpiresAt = time.Unix(expires, 0)
	_, _ = s.db.ExecContext(ctx, `DELETE FROM auth_challenges WHERE challenge = ?`, challenge)
	return c, nil
}

func (s *Store) CreateToken(ctx context.Context, token model.Token) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO auth_tokens (jti, account_id, key_id, expires_at, created_at)
VALUES (?, ?, ?, ?, ?)
`, token.JTI, nullableInt(token.AccountID), token.KeyID, token.ExpiresAt.Unix(), time.Now().Unix())
	return err
}

func (s *Store) GetToken(ctx context.Context, jti string) (model.Token, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT jti, account_id, key_id, expires_at
FROM auth_tokens
WHERE jti = ?
`, jti)
	var t model.Token
	var accountID sql.NullInt64
	var expires int64
	if err := row.Scan(&t.JTI, &accountID, &t.KeyID, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Token{}, store.ErrNotFound
		}
		return model.Token{}, err
	}
	if accountID.Valid {
		id := accountID.Int64
		t.AccountID = &id
	}
	t.ExpiresAt = time.Unix(expires, 0)
	return t, nil
}

func (s *Store) DeleteToken(ctx context.Context, jti string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE jti = ?`, jti)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) PurgeExpiredAuth(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	for _, q := range []string{
		`DELETE FROM auth_challenges WHERE expires_at < ?`,
		`DELETE FROM auth_tokens WHERE expires_at < ?`,
	} {
		res, err := s.db.ExecContext(ctx, q, now.Unix())
		if err != nil {
			return total, err
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

func (s *Store) CountActiveAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE is_banned = 0`).Scan(&n)
	return n, err
}

func (s *Store) CountSwapsByStatus(ctx context.Context) ([]model.SwapStatusCount, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT status, COUNT(*) FROM swap_requests GROUP BY status ORDER BY status
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []model.SwapStatusCount{}
	for rows.Next() {
		var c model.SwapStatusCount
		var status string
		if err := rows.Scan(&status, &c.Total); err != nil {
			return nil, err
		}
		c.Status = model.SwapStatus(status)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *Store) SummarizeRatings(ctx context.Context) (model.RatingSummary, error) {
	var sum model.RatingSummary
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(AVG(score), 0), COUNT(*) FROM ratings`).Scan(&sum.Average, &sum.Total)
	return sum, err
}

func (s *Store) CountApprovedSkillsByType(ctx context.Context) ([]model.SkillTypeCount, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT type, COUNT(*) FROM skills WHERE is_approved = 1 GROUP BY type ORDER BY type
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []model.SkillTypeCount{}
	for rows.Next() {
		var c model.SkillTypeCount
		var typ string
		if err := rows.Scan(&typ, &c.Total); err != nil {
			return nil, err
		}
		c.Type = model.SkillType(typ)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanAccount(row scanner) (model.Account, error) {
	var a model.Account
	var email, location sql.NullString
	var public, banned int
	var role string
	var created int64
	if err := row.Scan(&a.ID, &a.DisplayName, &email, &location, &public, &banned, &role, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, store.ErrNotFound
		}
		return model.Account{}, err
	}
	a.Email = email.String
	a.Location = location.String
	a.Public = public == 1
	a.Banned = banned == 1
	a.Role = model.Role(role)
	a.CreatedAt = time.Unix(created, 0)
	return a, nil
}

func scanSkill(row scanner) (model.Skill, error) {
	var sk model.Skill
	var typ string
	var approved int
	var accountName sql.NullString
	var created int64
	if err := row.Scan(&sk.ID, &sk.Name, &typ, &approved, &sk.AccountID, &accountName, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Skill{}, store.ErrNotFound
		}
		return model.Skill{}, err
	}
	sk.Type = model.SkillType(typ)
	sk.Approved = approved == 1
	sk.AccountName = accountName.String
	sk.CreatedAt = time.Unix(created, 0)
	return sk, nil
}

func collectSkills(rows *sql.Rows) ([]model.Skill, error) {
	defer rows.Close()
	var skills []model.Skill
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

func scanSwap(row scanner) (model.SwapRequest, error) {
	var sw model.SwapRequest
	var senderName, receiverName, message sql.NullString
	var status string
	var created int64
	if err := row.Scan(&sw.ID, &sw.SenderID, &senderName, &sw.ReceiverID, &receiverName,
		&sw.SkillOffered, &sw.SkillRequested, &message, &status, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SwapRequest{}, store.ErrNotFound
		}
		return model.SwapRequest{}, err
	}
	sw.SenderName = senderName.String
	sw.ReceiverName = receiverName.String
	sw.Message = message.String
	sw.Status = model.SwapStatus(status)
	sw.CreatedAt = time.Unix(created, 0)
	return sw, nil
}

func collectSwaps(rows *sql.Rows) ([]model.SwapRequest, error) {
	defer rows.Close()
	var swaps []model.SwapRequest
	for rows.Next() {
		sw, err := scanSwap(rows)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, sw)
	}
	return swaps, rows.Err()
}

// limitOr returns max when v is unset or above max.
func limitOr(v, max int) int {
	if v <= 0 || v > max {
		return max
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
