package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openscore/scorenight/internal/adapters/http/api"
	"github.com/openscore/scorenight/internal/adapters/ws"
	"github.com/openscore/scorenight/internal/app"
	"github.com/openscore/scorenight/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestServer(ctx context.Context, t *testing.T) (*httptest.Server, *app.Service) {
	t.Helper()

	svc := app.New()
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	store := svc.Store()
	store.PutTeam(ctx, model.Team{ID: "red", Name: "Red"})
	store.PutTeam(ctx, model.Team{ID: "blue", Name: "Blue"})
	store.PutUser(ctx, model.User{ID: "ana", Name: "Ana", TeamID: "red", Role: model.RoleMember, IsActive: true})
	store.PutUser(ctx, model.User{ID: "cy", Name: "Cy", TeamID: "blue", Role: model.RoleMember, IsActive: true})
	settings := model.DefaultSettings()
	settings.CustomBonuses = []model.CustomBonus{{ID: "mvp", Name: "MVP", Points: 30}}
	store.SetSettings(ctx, settings)
	store.PutSession(ctx, model.Session{ID: "week-1", Name: "Week 1", Status: model.StatusDraft})

	mux := http.NewServeMux()
	server := api.NewServer(svc, svc, ws.NewHandler(svc.Hub()))
	server.Register(ctx, mux)

	return httptest.NewServer(mux), svc
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestScoreSubmission(t *testing.T) {
	ctx := context.Background()

	Convey("Given the API over a seeded service", t, func() {
		server, svc := newTestServer(ctx, t)
		Reset(func() {
			server.Close()
			svc.Stop(ctx)
		})

		resp := post(t, server.URL+"/commands/select-session", map[string]any{"session_id": "week-1"})
		So(resp.StatusCode, ShouldEqual, http.StatusOK)
		resp.Body.Close()

		Convey("When a valid score is posted", func() {
			resp := post(t, server.URL+"/scores", map[string]any{
				"user_id": "ana",
				"metrics": map[string]int{"attendance": 1, "referrals": 2},
			})

			Convey("Then it is accepted with the derived total", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				var score model.Score
				decodeBody(t, resp, &score)
				So(score.TotalPoints, ShouldEqual, 30)
				So(score.TeamID, ShouldEqual, "red")
			})
		})

		Convey("When the body is not JSON", func() {
			resp, err := http.Post(server.URL+"/scores", "application/json", bytes.NewReader([]byte("{nope")))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the user id is missing", func() {
			resp := post(t, server.URL+"/scores", map[string]any{"metrics": map[string]int{}})
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the user does not exist", func() {
			resp := post(t, server.URL+"/scores", map[string]any{"user_id": "ghost"})
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestRosterSeeding(t *testing.T) {
	ctx := context.Background()

	Convey("Given the API over a seeded service", t, func() {
		server, svc := newTestServer(ctx, t)
		Reset(func() {
			server.Close()
			svc.Stop(ctx)
		})

		Convey("When a roster is posted", func() {
			resp := post(t, server.URL+"/roster", map[string]any{
				"teams": []map[string]any{{"id": "green", "name": "Green"}},
				"users": []map[string]any{
					{"id": "eli", "name": "Eli", "teamId": "green", "role": "member", "isActive": true},
				},
				"sessions": []map[string]any{{"id": "week-2", "name": "Week 2"}},
				"bonuses":  []map[string]any{{"id": "spirit", "name": "Spirit", "points": 20}},
			})

			Convey("Then the entities are stored and counted", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
				var summary map[string]int
				decodeBody(t, resp, &summary)
				So(summary["teams"], ShouldEqual, 1)
				So(summary["users"], ShouldEqual, 1)

				_, err := svc.Store().Team(ctx, "green")
				So(err, ShouldBeNil)
				sess, err := svc.Store().Session(ctx, "week-2")
				So(err, ShouldBeNil)
				So(sess.Status, ShouldEqual, model.StatusDraft)
			})
		})

		Convey("When a roster entity has no id", func() {
			resp := post(t, server.URL+"/roster", map[string]any{
				"teams": []map[string]any{{"name": "Nameless"}},
			})
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the roster body is not JSON", func() {
			resp, err := http.Post(server.URL+"/roster", "application/json", bytes.NewReader([]byte("{nope")))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestCommandEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given the API over a seeded service", t, func() {
		server, svc := newTestServer(ctx, t)
		Reset(func() {
			server.Close()
			svc.Stop(ctx)
		})

		Convey("When commands run before selecting a session", func() {
			resp := post(t, server.URL+"/commands/display-leaderboard", map[string]any{})
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusConflict)
		})

		Convey("Given a selected session with a score", func() {
			resp := post(t, server.URL+"/commands/select-session", map[string]any{"session_id": "week-1"})
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			resp.Body.Close()

			resp = post(t, server.URL+"/scores", map[string]any{
				"user_id": "ana",
				"metrics": map[string]int{"attendance": 1},
			})
			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
			resp.Body.Close()

			Convey("When a user is displayed", func() {
				resp := post(t, server.URL+"/commands/display-user", map[string]any{"user_id": "ana"})
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var m map[string]any
				decodeBody(t, resp, &m)
				So(m["type"], ShouldEqual, "show_user")
			})

			Convey("When an unscored user is displayed", func() {
				resp := post(t, server.URL+"/commands/display-user", map[string]any{"user_id": "cy"})
				defer resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})

			Convey("When a bonus is awarded twice", func() {
				body := map[string]any{"user_id": "ana", "bonus_id": "mvp", "awarded_by": "ref"}
				resp := post(t, server.URL+"/commands/award-bonus", body)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				resp.Body.Close()

				resp = post(t, server.URL+"/commands/award-bonus", body)
				defer resp.Body.Close()

				Convey("Then the duplicate is rejected with a conflict", func() {
					So(resp.StatusCode, ShouldEqual, http.StatusConflict)
					var e map[string]string
					decodeBody(t, resp, &e)
					So(e["code"], ShouldEqual, "duplicate_award")
				})
			})

			Convey("When the week is finalized", func() {
				resp := post(t, server.URL+"/commands/finalize", map[string]any{})
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				resp.Body.Close()

				resp = post(t, server.URL+"/commands/finalize", map[string]any{"confirm": true})
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var fin map[string]any
				decodeBody(t, resp, &fin)
				So(fin["winner_team_id"], ShouldEqual, "red")

				Convey("And finalizing again conflicts", func() {
					resp := post(t, server.URL+"/commands/finalize", map[string]any{"confirm": true})
					defer resp.Body.Close()
					So(resp.StatusCode, ShouldEqual, http.StatusConflict)
				})
			})

			Convey("When an unknown command is posted", func() {
				resp := post(t, server.URL+"/commands/launch-fireworks", map[string]any{})
				defer resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestReadEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given the API with a selected, scored session", t, func() {
		server, svc := newTestServer(ctx, t)
		Reset(func() {
			server.Close()
			svc.Stop(ctx)
		})

		resp := post(t, server.URL+"/commands/select-session", map[string]any{"session_id": "week-1"})
		So(resp.StatusCode, ShouldEqual, http.StatusOK)
		resp.Body.Close()
		resp = post(t, server.URL+"/scores", map[string]any{
			"user_id": "ana",
			"metrics": map[string]int{"attendance": 1},
		})
		So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
		resp.Body.Close()

		Convey("When standings are fetched", func() {
			resp, err := http.Get(server.URL + "/standings")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var standings []map[string]any
			decodeBody(t, resp, &standings)
			So(standings, ShouldHaveLength, 2)
		})

		Convey("When live standings are fetched before any reveal", func() {
			resp, err := http.Get(server.URL + "/standings/live")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var standings []map[string]any
			decodeBody(t, resp, &standings)
			for _, st := range standings {
				So(st["member_points"], ShouldEqual, 0)
			}
		})

		Convey("When the season totals are fetched", func() {
			resp, err := http.Get(server.URL + "/season")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("When stats are fetched", func() {
			resp, err := http.Get(server.URL + "/stats")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var stats map[string]any
			decodeBody(t, resp, &stats)
			So(stats["started"], ShouldEqual, true)
		})

		Convey("When the health endpoint is scraped", func() {
			resp, err := http.Get(server.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("When the console page is fetched", func() {
			resp, err := http.Get(server.URL + "/console")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}
