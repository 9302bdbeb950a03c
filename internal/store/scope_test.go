package store

import (
	"strings"
	"testing"

	"github.com/rahulmathews/cutshort-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func TestParsePage_Defaults(t *testing.T) {
	cases := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"both missing", "", "", 1, 10},
		{"explicit", "2", "3", 2, 3},
		{"non-numeric", "abc", "xyz", 1, 10},
		{"zero", "0", "0", 1, 10},
		{"negative", "-1", "-5", 1, 10},
		{"page only", "4", "", 4, 10},
		{"limit only", "", "25", 1, 25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, limit := ParsePage(tc.page, tc.limit)
			if page != tc.wantPage || limit != tc.wantLimit {
				t.Fatalf("ParsePage(%q, %q) = (%d, %d), want (%d, %d)",
					tc.page, tc.limit, page, limit, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestListScope_NonAdminAlwaysRestricted(t *testing.T) {
	v := Viewer{UserID: 7, Admin: false}

	cases := []struct {
		name   string
		search string
		postID uint
	}{
		{"no filters", "", 0},
		{"search only", "hello", 0},
		{"postID only", "", 3},
		{"search and postID", "hello", 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sc := ListScope(v, tc.search, tc.postID)
			if !sc.HasAuthor || sc.AuthorID != 7 {
				t.Fatalf("non-admin scope must restrict author_id, got %+v", sc)
			}
			if sc.Search != tc.search || sc.PostID != tc.postID {
				t.Fatalf("scope dropped filters: %+v", sc)
			}
		})
	}
}

func TestListScope_ZeroViewerStillRestricted(t *testing.T) {
	// 身份缺失（UserID 0）不等于放开限制：条件仍然存在，只是命中不了任何行。
	sc := ListScope(Viewer{UserID: 0, Admin: false}, "", 0)
	if !sc.HasAuthor {
		t.Fatalf("zero viewer must still carry the author restriction: %+v", sc)
	}
	if sc.AuthorID != 0 {
		t.Fatalf("expected author_id 0, got %d", sc.AuthorID)
	}
}

func TestListScope_AdminNeverRestricted(t *testing.T) {
	v := Viewer{UserID: 7, Admin: true}

	for _, search := range []string{"", "hello"} {
		for _, postID := range []uint{0, 3} {
			sc := ListScope(v, search, postID)
			if sc.HasAuthor {
				t.Fatalf("admin scope must not restrict author_id (search=%q postID=%d): %+v",
					search, postID, sc)
			}
		}
	}
}

func TestListScope_TrimsSearch(t *testing.T) {
	sc := ListScope(Viewer{UserID: 1}, "  hello  ", 0)
	if sc.Search != "hello" {
		t.Fatalf("expected trimmed search, got %q", sc.Search)
	}
}

func TestMutationScope(t *testing.T) {
	user := MutationScope(Viewer{UserID: 5, Admin: false}, 42)
	if user.RowID != 42 {
		t.Fatalf("expected row id 42, got %d", user.RowID)
	}
	if !user.HasAuthor || user.AuthorID != 5 {
		t.Fatalf("non-admin mutation must carry author restriction, got %+v", user)
	}

	admin := MutationScope(Viewer{UserID: 5, Admin: true}, 42)
	if admin.RowID != 42 {
		t.Fatalf("expected row id 42, got %d", admin.RowID)
	}
	if admin.HasAuthor {
		t.Fatalf("admin mutation must bypass ownership, got %+v", admin)
	}
}

// newDryRunDB 构造一个只生成 SQL 不执行的 gorm 会话。
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func hasVar(vars []interface{}, want interface{}) bool {
	for _, v := range vars {
		if v == want {
			return true
		}
	}
	return false
}

func TestScopeApply_NonAdminAuthorClause(t *testing.T) {
	db := newDryRunDB(t)
	sc := ListScope(Viewer{UserID: 7, Admin: false}, "", 0)

	var todos []model.Todo
	stmt := sc.Apply(db.Model(&model.Todo{})).Find(&todos).Statement

	if !strings.Contains(stmt.SQL.String(), "author_id = ?") {
		t.Fatalf("expected author_id clause, got %q", stmt.SQL.String())
	}
	if !hasVar(stmt.Vars, uint(7)) {
		t.Fatalf("expected author_id var 7, got %v", stmt.Vars)
	}
}

func TestScopeApply_ZeroViewerMatchesNothing(t *testing.T) {
	db := newDryRunDB(t)
	sc := ListScope(Viewer{UserID: 0, Admin: false}, "", 0)

	var todos []model.Todo
	stmt := sc.Apply(db.Model(&model.Todo{})).Find(&todos).Statement

	if !strings.Contains(stmt.SQL.String(), "author_id = ?") {
		t.Fatalf("zero viewer must still emit the author clause, got %q", stmt.SQL.String())
	}
	if !hasVar(stmt.Vars, uint(0)) {
		t.Fatalf("expected author_id var 0, got %v", stmt.Vars)
	}
}

func TestScopeApply_AdminOmitsAuthorClause(t *testing.T) {
	db := newDryRunDB(t)
	sc := ListScope(Viewer{UserID: 7, Admin: true}, "hello", 3)

	var comments []model.Comment
	stmt := sc.Apply(db.Model(&model.Comment{})).Find(&comments).Statement

	if strings.Contains(stmt.SQL.String(), "author_id") {
		t.Fatalf("admin query must not carry author_id, got %q", stmt.SQL.String())
	}
	if !strings.Contains(stmt.SQL.String(), "LOWER(text) LIKE ?") {
		t.Fatalf("expected search clause, got %q", stmt.SQL.String())
	}
	if !hasVar(stmt.Vars, uint(3)) {
		t.Fatalf("expected post_id var 3, got %v", stmt.Vars)
	}
}

func TestScopeApply_EscapesLikeMetacharacters(t *testing.T) {
	cases := []struct {
		name    string
		search  string
		pattern string
	}{
		{"percent", "100%", `%100\%%`},
		{"underscore", "a_b", `%a\_b%`},
		{"backslash", `a\b`, `%a\\b%`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := newDryRunDB(t)
			sc := ListScope(Viewer{UserID: 1, Admin: false}, tc.search, 0)

			var todos []model.Todo
			stmt := sc.Apply(db.Model(&model.Todo{})).Find(&todos).Statement

			if !hasVar(stmt.Vars, tc.pattern) {
				t.Fatalf("search %q must reach LIKE as %q, got vars %v", tc.search, tc.pattern, stmt.Vars)
			}
		})
	}
}

func TestScopeApply_Pagination(t *testing.T) {
	// page=2&limit=3 对应第 4~6 行
	db := newDryRunDB(t)
	page, limit := ParsePage("2", "3")
	sc := ListScope(Viewer{UserID: 1, Admin: false}, "", 0)

	var todos []model.Todo
	stmt := sc.Apply(db.Model(&model.Todo{})).
		Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&todos).Statement

	sql := stmt.SQL.String()
	if !strings.Contains(sql, "LIMIT") || !strings.Contains(sql, "OFFSET") {
		t.Fatalf("expected LIMIT/OFFSET in %q", sql)
	}
	if len(stmt.Vars) < 2 {
		t.Fatalf("expected limit/offset vars, got %v", stmt.Vars)
	}
	gotOffset := stmt.Vars[len(stmt.Vars)-1]
	gotLimit := stmt.Vars[len(stmt.Vars)-2]
	if gotLimit != 3 || gotOffset != 3 {
		t.Fatalf("expected limit 3 offset 3, got limit=%v offset=%v", gotLimit, gotOffset)
	}
}
