package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/folio-org/mod-translations/internal/app"
	"github.com/folio-org/mod-translations/internal/domain"
)

// Route names the collection a resource is served under.
type Route struct {
	// Path is the collection path, e.g. "/languages".
	Path string
	// Plural and Singular build operation IDs such as "list-languages".
	Plural   string
	Singular string
	Tag      string
}

var (
	LanguagesRoute = Route{
		Path: "/languages", Plural: "languages", Singular: "language", Tag: "Languages",
	}
	LanguageTranslatorsRoute = Route{
		Path: "/languageTranslators", Plural: "language-translators", Singular: "language-translator", Tag: "Language translators",
	}
	TranslationsRoute = Route{
		Path: "/translations", Plural: "translations", Singular: "translation", Tag: "Translations",
	}
)

// Config controls request handling shared by every resource.
type Config struct {
	// DefaultTenant is used when a request carries no tenant header.
	DefaultTenant string
	// ExposeInternalErrors echoes the message of unexpected failures in
	// 500 responses instead of a generic text.
	ExposeInternalErrors bool
}

// TenantHeader is embedded in every input to select the tenant.
type TenantHeader struct {
	Tenant string `header:"X-Okapi-Tenant" required:"false" doc:"Tenant identifier"`
}

// --- List ---

type ListInput struct {
	TenantHeader
	Query  string `query:"query" required:"false" doc:"Filter expression, e.g. {localeCode: \"en\"}"`
	Offset int    `query:"offset" required:"false" default:"0" minimum:"0" doc:"Number of matches to skip"`
	Limit  int    `query:"limit" required:"false" default:"10" minimum:"0" maximum:"1000" doc:"Max results"`
}

// PageResponse is the list envelope.
type PageResponse[T any] struct {
	Items        []T `json:"items" doc:"Matching records in this window"`
	TotalRecords int `json:"totalRecords" doc:"Number of records matching the filter"`
}

type ListOutput[T any] struct {
	Body PageResponse[T]
}

// --- Create ---

type CreateInput[T any] struct {
	TenantHeader
	Body T
}

type CreateOutput[T any] struct {
	Location string `header:"Location" doc:"Path of the created record"`
	Body     T
}

// --- Read / Delete ---

type RecordInput struct {
	TenantHeader
	ID string `path:"id" doc:"Record ID"`
}

type RecordOutput[T any] struct {
	Body T
}

// --- Update ---

type UpdateInput[T any] struct {
	TenantHeader
	ID   string `path:"id" doc:"Record ID"`
	Body T
}

// --- Delete all ---

type CollectionInput struct {
	TenantHeader
}

// Register adds the CRUD routes of one resource to the Huma API.
func Register[T any](api huma.API, svc *app.ResourceService[T], route Route, cfg Config) {
	h := &handler[T]{svc: svc, route: route, cfg: cfg}

	huma.Register(api, huma.Operation{
		OperationID: "list-" + route.Plural,
		Method:      http.MethodGet,
		Path:        route.Path,
		Summary:     "List " + route.Plural,
		Tags:        []string{route.Tag},
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID:   "create-" + route.Singular,
		Method:        http.MethodPost,
		Path:          route.Path,
		Summary:       "Create a " + route.Singular,
		Tags:          []string{route.Tag},
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "get-" + route.Singular,
		Method:      http.MethodGet,
		Path:        route.Path + "/{id}",
		Summary:     "Get a " + route.Singular + " by ID",
		Tags:        []string{route.Tag},
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID:   "update-" + route.Singular,
		Method:        http.MethodPut,
		Path:          route.Path + "/{id}",
		Summary:       "Replace a " + route.Singular,
		Tags:          []string{route.Tag},
		DefaultStatus: http.StatusNoContent,
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-" + route.Singular,
		Method:        http.MethodDelete,
		Path:          route.Path + "/{id}",
		Summary:       "Delete a " + route.Singular,
		Tags:          []string{route.Tag},
		DefaultStatus: http.StatusNoContent,
	}, h.delete)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-all-" + route.Plural,
		Method:        http.MethodDelete,
		Path:          route.Path,
		Summary:       "Delete all " + route.Plural,
		Tags:          []string{route.Tag},
		DefaultStatus: http.StatusNoContent,
	}, h.deleteAll)
}

type handler[T any] struct {
	svc   *app.ResourceService[T]
	route Route
	cfg   Config
}

func (h *handler[T]) tenant(in TenantHeader) (string, error) {
	tenant, err := domain.ResolveTenant(in.Tenant, h.cfg.DefaultTenant)
	if err != nil {
		return "", huma.Error400BadRequest(err.Error(), &huma.ErrorDetail{
			Message:  "tenant must be a lowercase identifier",
			Location: "header." + domain.TenantHeader,
			Value:    in.Tenant,
		})
	}
	return tenant, nil
}

func (h *handler[T]) list(ctx context.Context, in *ListInput) (*ListOutput[T], error) {
	tenant, err := h.tenant(in.TenantHeader)
	if err != nil {
		return nil, err
	}

	page, err := h.svc.List(ctx, tenant, domain.ListFilter{
		Query:  in.Query,
		Offset: in.Offset,
		Limit:  in.Limit,
	})
	if err != nil {
		return nil, h.toHumaError(ctx, "list", tenant, err)
	}

	items := page.Items
	if items == nil {
		items = []T{}
	}
	return &ListOutput[T]{Body: PageResponse[T]{Items: items, TotalRecords: page.TotalRecords}}, nil
}

func (h *handler[T]) create(ctx context.Context, in *CreateInput[T]) (*CreateOutput[T], error) {
	tenant, err := h.tenant(in.TenantHeader)
	if err != nil {
		return nil, err
	}

	record, err := h.svc.Create(ctx, tenant, in.Body)
	if err != nil {
		return nil, h.toHumaError(ctx, "create", tenant, err)
	}

	return &CreateOutput[T]{
		Location: h.route.Path + "/" + h.svc.Kind().ID(record),
		Body:     record,
	}, nil
}

func (h *handler[T]) get(ctx context.Context, in *RecordInput) (*RecordOutput[T], error) {
	tenant, err := h.tenant(in.TenantHeader)
	if err != nil {
		return nil, err
	}

	record, err := h.svc.Get(ctx, tenant, in.ID)
	if err != nil {
		return nil, h.toHumaError(ctx, "get", tenant, err)
	}
	return &RecordOutput[T]{Body: record}, nil
}

func (h *handler[T]) update(ctx context.Context, in *UpdateInput[T]) (*struct{}, error) {
	tenant, err := h.tenant(in.TenantHeader)
	if err != nil {
		return nil, err
	}

	if err := h.svc.Update(ctx, tenant, in.ID, in.Body); err != nil {
		return nil, h.toHumaError(ctx, "update", tenant, err)
	}
	return nil, nil
}

func (h *handler[T]) delete(ctx context.Context, in *RecordInput) (*struct{}, error) {
	tenant, err := h.tenant(in.TenantHeader)
	if err != nil {
		return nil, err
	}

	if err := h.svc.Delete(ctx, tenant, in.ID); err != nil {
		return nil, h.toHumaError(ctx, "delete", tenant, err)
	}
	return nil, nil
}

func (h *handler[T]) deleteAll(ctx context.Context, in *CollectionInput) (*struct{}, error) {
	tenant, err := h.tenant(in.TenantHeader)
	if err != nil {
		return nil, err
	}

	if err := h.svc.DeleteAll(ctx, tenant); err != nil {
		return nil, h.toHumaError(ctx, "delete-all", tenant, err)
	}
	return nil, nil
}

// toHumaError translates domain errors to Huma HTTP errors.
func (h *handler[T]) toHumaError(ctx context.Context, op, tenant string, err error) error {
	var queryErr *domain.QueryError
	if errors.As(err, &queryErr) {
		return huma.Error400BadRequest(queryErr.Error(), &huma.ErrorDetail{
			Message:  queryErr.Err.Error(),
			Location: "query.query",
			Value:    queryErr.Expression,
		})
	}

	var inUseErr *domain.InUseError
	if errors.As(err, &inUseErr) {
		return huma.Error400BadRequest(inUseErr.Error())
	}

	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		return huma.Error404NotFound(notFoundErr.Error())
	}

	var uniqueErr *domain.UniquenessError
	if errors.As(err, &uniqueErr) {
		msg := "value already exists"
		if len(uniqueErr.Key) > 1 {
			msg = "combination of values already exists"
		}
		details := make([]error, len(uniqueErr.Key))
		for i, fv := range uniqueErr.Key {
			details[i] = &huma.ErrorDetail{
				Message:  msg,
				Location: "body." + fv.Field,
				Value:    fv.Value,
			}
		}
		return huma.Error422UnprocessableEntity(uniqueErr.Error(), details...)
	}

	var refErr *domain.ReferenceError
	if errors.As(err, &refErr) {
		return huma.Error422UnprocessableEntity(refErr.Error(), &huma.ErrorDetail{
			Message:  "referenced Language does not exist",
			Location: "body." + refErr.Field,
			Value:    refErr.Value,
		})
	}

	slog.ErrorContext(ctx, "request failed",
		"operation", op+"-"+h.route.Singular,
		"tenant", tenant,
		"error", err,
	)
	if h.cfg.ExposeInternalErrors {
		return huma.Error500InternalServerError(err.Error())
	}
	return huma.Error500InternalServerError("internal server error")
}
