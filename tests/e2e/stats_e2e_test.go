//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	handler "github.com/godilite/survey-stats/internal/grpc"
	"github.com/godilite/survey-stats/internal/repository"
	"github.com/godilite/survey-stats/internal/repository/models"
	"github.com/godilite/survey-stats/internal/service"
	"github.com/godilite/survey-stats/internal/statscache"
	"github.com/godilite/survey-stats/internal/transport/rest"
	"github.com/godilite/survey-stats/internal/transport/rest/middleware"
	"github.com/godilite/survey-stats/tests/e2e/mocks"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo      *repository.ResponseRepository
	cache     *mocks.TrackingCache
	stats     *statscache.Service
	teacherID string
	emptyID   string
	subjectID int64
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repository.CreateSchema(ctx, db))

	repo := repository.NewResponseRepository(db)
	teacherID, err := repo.CreateTeacher(ctx, "Ada", "Lovelace")
	require.NoError(t, err)
	emptyID, err := repo.CreateTeacher(ctx, "Alan", "Turing")
	require.NoError(t, err)
	subjectID, err := repo.CreateSubject(ctx, "Mathematics")
	require.NoError(t, err)
	aliceID, err := repo.CreateUser(ctx, "alice")
	require.NoError(t, err)
	bobID, err := repo.CreateUser(ctx, "bob")
	require.NoError(t, err)

	records := []models.ResponseRecord{
		{
			Choice: models.ChoiceIdentified, UserID: bobID,
			Questions: []models.QuestionAnswer{{Question: "q1", Answer: "Agree"}},
			CreatedAt: time.Date(2024, 11, 20, 9, 0, 0, 0, time.UTC),
		},
		{
			Choice: models.ChoiceIdentified, UserID: aliceID,
			Questions: []models.QuestionAnswer{{Question: "q1", Answer: "Agree"}, {Question: "q2", Answer: ""}},
			CreatedAt: time.Date(2025, 2, 10, 10, 0, 0, 0, time.UTC),
		},
		{
			Choice:    models.ChoiceAnonymous,
			Questions: []models.QuestionAnswer{{Question: "q1", Answer: "Strongly Disagree"}, {Question: "q2", Answer: "Strongly Agree"}},
			CreatedAt: time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC),
		},
	}
	for _, rec := range records {
		rec.TeacherID = teacherID
		rec.SubjectID = subjectID
		_, err := repo.InsertResponse(ctx, rec)
		require.NoError(t, err)
	}

	logger := zap.NewNop()
	svc := service.NewStatsService(repo, logger, service.WithClock(func() time.Time { return testNow }))
	tracking := mocks.NewTrackingCache()

	return &fixture{
		repo:      repo,
		cache:     tracking,
		stats:     statscache.New(svc, tracking, logger, 5*time.Minute),
		teacherID: itoa(teacherID),
		emptyID:   itoa(emptyID),
		subjectID: subjectID,
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func newGRPCClient(t *testing.T, stats handler.StatsService) *handler.SurveyStatsClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	handler.RegisterSurveyStatsServer(srv, handler.NewGRPCHandlers(stats, zap.NewNop()))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return handler.NewSurveyStatsClient(conn)
}

func request(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestE2E_GRPC_RatingStats(t *testing.T) {
	f := setupFixture(t)
	client := newGRPCClient(t, f.stats)
	ctx := context.Background()

	t.Run("pie chart covers all responses", func(t *testing.T) {
		resp, err := client.GetRatingStats(ctx, request(t, map[string]any{"teacher_id": f.teacherID, "chart_type": "pie_chart"}))
		require.NoError(t, err)

		got := map[string]float64{}
		for _, v := range resp.GetFields()["labels"].GetListValue().GetValues() {
			fields := v.GetStructValue().GetFields()
			got[fields["name"].GetStringValue()] = fields["percentage"].GetNumberValue()
		}
		assert.Equal(t, map[string]float64{"Agree": 50, "Strongly Disagree": 25, "Strongly Agree": 25}, got)
	})

	t.Run("yearly line chart", func(t *testing.T) {
		resp, err := client.GetRatingStats(ctx, request(t, map[string]any{
			"teacher_id": f.teacherID, "chart_type": "line_chart", "date_filter": "yearly",
		}))
		require.NoError(t, err)

		series := resp.GetFields()["series"].GetListValue().GetValues()
		require.Len(t, series, 3)
		first := series[0].GetStructValue().GetFields()
		assert.Equal(t, "Agree", first["name"].GetStringValue())
		assert.Equal(t, "10-02-2025", first["date"].GetStringValue())
		assert.Equal(t, 1.0, first["quantity"].GetNumberValue())
	})

	t.Run("monthly bar chart", func(t *testing.T) {
		resp, err := client.GetRatingStats(ctx, request(t, map[string]any{
			"teacher_id": f.teacherID, "chart_type": "bar_chart", "date_filter": "monthly",
		}))
		require.NoError(t, err)

		series := resp.GetFields()["series"].GetListValue().GetValues()
		require.Len(t, series, 2)
		for _, v := range series {
			assert.Equal(t, "02-06-2025", v.GetStructValue().GetFields()["date"].GetStringValue())
		}
	})

	t.Run("explicit range", func(t *testing.T) {
		resp, err := client.GetRatingStats(ctx, request(t, map[string]any{
			"teacher_id": f.teacherID, "chart_type": "line_chart",
			"start_date": "01-02-2025", "end_date": "10-02-2025",
		}))
		require.NoError(t, err)

		series := resp.GetFields()["series"].GetListValue().GetValues()
		require.Len(t, series, 1)
		assert.Equal(t, "Agree", series[0].GetStructValue().GetFields()["name"].GetStringValue())
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name   string
			fields map[string]any
			code   codes.Code
		}{
			{"missing teacher", map[string]any{"chart_type": "pie_chart"}, codes.InvalidArgument},
			{"missing chart", map[string]any{"teacher_id": f.teacherID}, codes.InvalidArgument},
			{"bad chart", map[string]any{"teacher_id": f.teacherID, "chart_type": "triangle_chart"}, codes.InvalidArgument},
			{"bad filter", map[string]any{"teacher_id": f.teacherID, "chart_type": "line_chart", "date_filter": "weekly"}, codes.InvalidArgument},
			{"bad range", map[string]any{"teacher_id": f.teacherID, "chart_type": "line_chart", "start_date": "2025-01-01", "end_date": "31-01-2025"}, codes.InvalidArgument},
			{"unknown teacher", map[string]any{"teacher_id": "999", "chart_type": "pie_chart"}, codes.NotFound},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := client.GetRatingStats(ctx, request(t, tc.fields))
				assert.Equal(t, tc.code, status.Code(err))
			})
		}
	})

	t.Run("teacher without responses", func(t *testing.T) {
		resp, err := client.GetRatingStats(ctx, request(t, map[string]any{"teacher_id": f.emptyID, "chart_type": "pie_chart"}))
		require.NoError(t, err)
		assert.Empty(t, resp.GetFields()["labels"].GetListValue().GetValues())

		_, err = client.GetUserStats(ctx, request(t, map[string]any{"teacher_id": f.emptyID}))
		assert.Equal(t, codes.NotFound, status.Code(err))
	})
}

func TestE2E_GRPC_UserStats(t *testing.T) {
	f := setupFixture(t)
	client := newGRPCClient(t, f.stats)
	ctx := context.Background()

	resp, err := client.GetUserStats(ctx, request(t, map[string]any{"teacher_id": f.teacherID}))
	require.NoError(t, err)

	anonymous := resp.GetFields()["anonymous_percentage"].GetNumberValue()
	identified := resp.GetFields()["identified_percentage"].GetNumberValue()
	assert.InDelta(t, 33.333, anonymous, 0.001)
	assert.Equal(t, 100.0, anonymous+identified)

	table, err := client.GetUserTableStats(ctx, request(t, map[string]any{"teacher_id": f.teacherID}))
	require.NoError(t, err)

	rows := table.GetFields()["rows"].GetListValue().GetValues()
	require.Len(t, rows, 3)
	type row struct {
		name      string
		avg       float64
		timestamp string
	}
	var got []row
	for _, v := range rows {
		fields := v.GetStructValue().GetFields()
		got = append(got, row{
			fields["respondent"].GetStringValue(),
			fields["average_rating"].GetNumberValue(),
			fields["timestamp"].GetStringValue(),
		})
	}
	assert.Equal(t, []row{
		{"bob", 5, "2024-11-20 09:00:00"},
		{"alice", 5, "2025-02-10 10:00:00"},
		{"anonym", 3.5, "2025-06-02 15:00:00"},
	}, got)
}

func TestE2E_CacheServesRepeatedRequests(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	first, err := f.stats.GetRatio(ctx, f.teacherID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, sets, _ := f.cache.Counts()
		return sets >= 1
	}, 2*time.Second, 10*time.Millisecond)

	// a new anonymous response is invisible until the cached ratio expires
	tid, err := strconv.ParseInt(f.teacherID, 10, 64)
	require.NoError(t, err)
	_, err = f.repo.InsertResponse(ctx, models.ResponseRecord{
		TeacherID: tid, SubjectID: f.subjectID, Choice: models.ChoiceAnonymous, CreatedAt: testNow,
	})
	require.NoError(t, err)

	second, err := f.stats.GetRatio(ctx, f.teacherID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, _, hits := f.cache.Counts()
	assert.GreaterOrEqual(t, hits, 1)
}

func TestE2E_REST(t *testing.T) {
	f := setupFixture(t)
	auth := middleware.NewAuth("e2e-secret")
	server := httptest.NewServer(rest.NewRouter(&rest.Container{
		Stats:     f.stats,
		Logger:    zap.NewNop(),
		JWTSecret: "e2e-secret",
	}))
	t.Cleanup(server.Close)

	token, err := auth.SignStaffToken("admin", time.Hour)
	require.NoError(t, err)

	get := func(t *testing.T, path string, headers map[string]string) *http.Response {
		t.Helper()
		req, err := http.NewRequest(http.MethodGet, server.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		resp, err := server.Client().Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	t.Run("rating via headers", func(t *testing.T) {
		resp := get(t, "/api/stats/rating?date=yearly", map[string]string{"teacher-id": f.teacherID, "type": "line_chart"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Series []service.SeriesPoint `json:"series"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body.Series, 3)
	})

	t.Run("invalid chart type", func(t *testing.T) {
		resp := get(t, "/api/stats/rating?teacher_id="+f.teacherID+"&chart_type=triangle_chart", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("users", func(t *testing.T) {
		resp := get(t, "/api/stats/users?teacher_id="+f.teacherID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var ratio service.Ratio
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&ratio))
		assert.Equal(t, 100.0, ratio.AnonymousPercentage+ratio.IdentifiedPercentage)
	})

	t.Run("xlsx export", func(t *testing.T) {
		resp := get(t, "/api/stats/users/table.xlsx?teacher_id="+f.teacherID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		payload, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		wb, err := excelize.OpenReader(bytes.NewReader(payload))
		require.NoError(t, err)
		defer wb.Close()

		rows, err := wb.GetRows(wb.GetSheetName(0))
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, "anonym", rows[3][0])
	})

	t.Run("unauthenticated", func(t *testing.T) {
		resp, err := server.Client().Get(server.URL + "/api/stats/users?teacher_id=" + f.teacherID)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
