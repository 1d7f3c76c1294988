package accesscontrol_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	apperrors "github.com/framil09/prefeitura--sub000/internal"
	"github.com/framil09/prefeitura--sub000/internal/accesscontrol"
	"github.com/framil09/prefeitura--sub000/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockService implements accesscontrol.ServiceAPI for handler tests.
type MockService struct {
	overrides map[int64][]accesscontrol.Override
	menu      []accesscontrol.MenuEntry
	canAccess bool

	listErr      error
	setErr       error
	presetErr    error
	canAccessErr error
	menuErr      error

	appliedPresets []string
}

func NewMockService() *MockService {
	return &MockService{
		overrides: make(map[int64][]accesscontrol.Override),
		canAccess: true,
	}
}

func (m *MockService) ListOverrides(ctx context.Context, userID int64) ([]accesscontrol.Override, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.overrides[userID], nil
}

func (m *MockService) SetOverride(ctx context.Context, userID int64, section string, allowed bool) (accesscontrol.Override, error) {
	if m.setErr != nil {
		return accesscontrol.Override{}, m.setErr
	}
	sec, err := accesscontrol.ParseSection(section)
	if err != nil {
		return accesscontrol.Override{}, err
	}
	row := accesscontrol.Override{UserID: userID, Section: sec, Allowed: allowed}
	m.overrides[userID] = append(m.overrides[userID], row)
	return row, nil
}

func (m *MockService) ApplyPreset(ctx context.Context, userID int64, presetName string) error {
	if m.presetErr != nil {
		return m.presetErr
	}
	if _, err := accesscontrol.ParsePreset(presetName); err != nil {
		return err
	}
	m.appliedPresets = append(m.appliedPresets, presetName)
	return nil
}

func (m *MockService) CanAccessSection(ctx context.Context, id accesscontrol.Identity, section accesscontrol.Section) (bool, error) {
	if m.canAccessErr != nil {
		return false, m.canAccessErr
	}
	return m.canAccess, nil
}

func (m *MockService) VisibleMenu(ctx context.Context, id accesscontrol.Identity) ([]accesscontrol.MenuEntry, error) {
	if m.menuErr != nil {
		return nil, m.menuErr
	}
	return m.menu, nil
}

var _ = Describe("Permission Handler", func() {
	var (
		mockService *MockService
		handler     *accesscontrol.Handler
		router      chi.Router

		admin accesscontrol.Identity
	)

	withIdentity := func(r *http.Request, id accesscontrol.Identity) *http.Request {
		return r.WithContext(accesscontrol.ContextWithIdentity(r.Context(), id))
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockService = NewMockService()
		handler = accesscontrol.NewHandler(transport.NewBaseHandler(logger), mockService)
		admin = accesscontrol.Identity{UserID: 1, Role: accesscontrol.RoleAdmin}

		router = chi.NewRouter()
		router.Get("/menu", handler.GetMenu)
		router.Get("/users/{id}/permissions", handler.ListPermissions)
		router.Put("/users/{id}/permissions/{section}", handler.SetPermission)
		router.Post("/users/{id}/permissions/preset", handler.ApplyPreset)
	})

	Describe("GetMenu", func() {
		It("returns 401 without an authenticated identity", func() {
			req := httptest.NewRequest(http.MethodGet, "/menu", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns the visible entries in order", func() {
			mockService.menu = accesscontrol.AdminMenu()[:3]

			req := withIdentity(httptest.NewRequest(http.MethodGet, "/menu", nil), admin)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body accesscontrol.MenuResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Entries).To(HaveLen(3))
			Expect(body.Entries[0].Href).To(Equal("/admin"))
		})

		It("returns 503 when the store is unreachable", func() {
			mockService.menuErr = apperrors.NewUnavailableError("permission store unreachable", nil)

			req := withIdentity(httptest.NewRequest(http.MethodGet, "/menu", nil), admin)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Describe("ListPermissions", func() {
		It("returns an empty list for an unconfigured user", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/3/permissions", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body accesscontrol.OverridesResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.UserID).To(Equal(int64(3)))
			Expect(body.Overrides).To(BeEmpty())
		})

		It("returns 404 for unknown users", func() {
			mockService.listErr = apperrors.ErrUserNotFound

			req := httptest.NewRequest(http.MethodGet, "/users/99/permissions", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 for a non-numeric user id", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/abc/permissions", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("SetPermission", func() {
		It("persists the override and echoes the stored row", func() {
			body := strings.NewReader(`{"allowed": false}`)
			req := httptest.NewRequest(http.MethodPut, "/users/3/permissions/licitacoes", body)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp accesscontrol.OverrideResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Section).To(Equal(accesscontrol.SectionLicitacoes))
			Expect(resp.Allowed).To(BeFalse())
		})

		It("returns 400 when the section is outside the enumeration", func() {
			body := strings.NewReader(`{"allowed": true}`)
			req := httptest.NewRequest(http.MethodPut, "/users/3/permissions/financeiro", body)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 when allowed is missing", func() {
			body := strings.NewReader(`{}`)
			req := httptest.NewRequest(http.MethodPut, "/users/3/permissions/noticias", body)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("ApplyPreset", func() {
		It("applies the preset and returns the re-read rows", func() {
			mockService.overrides[3] = []accesscontrol.Override{
				{UserID: 3, Section: accesscontrol.SectionDashboard, Allowed: true},
				{UserID: 3, Section: accesscontrol.SectionNoticias, Allowed: true},
			}

			body := strings.NewReader(`{"preset": "EDITOR"}`)
			req := httptest.NewRequest(http.MethodPost, "/users/3/permissions/preset", body)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(mockService.appliedPresets).To(Equal([]string{"EDITOR"}))

			var resp accesscontrol.OverridesResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Overrides).To(HaveLen(2))
		})

		It("returns 400 for an unknown preset name", func() {
			body := strings.NewReader(`{"preset": "SUPERUSER"}`)
			req := httptest.NewRequest(http.MethodPost, "/users/3/permissions/preset", body)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 when the preset field is empty", func() {
			body := strings.NewReader(`{}`)
			req := httptest.NewRequest(http.MethodPost, "/users/3/permissions/preset", body)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("RequireSection", func() {
		newGatedRouter := func() chi.Router {
			r := chi.NewRouter()
			r.Group(func(r chi.Router) {
				r.Use(handler.RequireSection(accesscontrol.SectionPermissoes))
				r.Get("/gated", func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusOK)
				})
			})
			return r
		}

		It("returns 401 without an identity", func() {
			req := httptest.NewRequest(http.MethodGet, "/gated", nil)
			rec := httptest.NewRecorder()
			newGatedRouter().ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns 403 when the section is denied", func() {
			mockService.canAccess = false

			req := withIdentity(httptest.NewRequest(http.MethodGet, "/gated", nil), admin)
			rec := httptest.NewRecorder()
			newGatedRouter().ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("returns 503 when evaluation cannot reach the store", func() {
			mockService.canAccessErr = apperrors.NewUnavailableError("permission store unreachable", nil)

			req := withIdentity(httptest.NewRequest(http.MethodGet, "/gated", nil), admin)
			rec := httptest.NewRecorder()
			newGatedRouter().ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		})

		It("passes the request through when allowed", func() {
			req := withIdentity(httptest.NewRequest(http.MethodGet, "/gated", nil), admin)
			rec := httptest.NewRecorder()
			newGatedRouter().ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})
})
