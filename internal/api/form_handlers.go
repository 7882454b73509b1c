package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dojolog/dojolog-server/internal/domain"
	"github.com/dojolog/dojolog-server/internal/service"
)

func (s *Server) registerFormRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listForms",
		Method:      http.MethodGet,
		Path:        "/api/v1/forms",
		Summary:     "List forms",
		Description: "Returns the caller's live forms, junior ranks first. Anonymous callers get an empty list.",
		Tags:        []string{"Forms"},
	}, s.handleListForms)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createForm",
		Method:        http.MethodPost,
		Path:          "/api/v1/forms",
		Summary:       "Create form",
		Description:   "Records a form at a rank. Fails with DUPLICATE_RECORD when the caller already has a live form with the same name and rank.",
		Tags:          []string{"Forms"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateForm)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTrash",
		Method:      http.MethodGet,
		Path:        "/api/v1/forms/trash",
		Summary:     "List trashed forms",
		Description: "Returns the caller's trashed forms, most recently trashed first",
		Tags:        []string{"Forms"},
	}, s.handleListTrash)

	huma.Register(s.api, huma.Operation{
		OperationID: "newFormPage",
		Method:      http.MethodGet,
		Path:        "/api/v1/forms/new",
		Summary:     "Add-form screen data",
		Description: "Returns syllabus names, learned names, the progress chart and requirement tables. Degrades to empty collections with an error message when the caller's forms cannot be read.",
		Tags:        []string{"Forms"},
	}, s.handleNewFormPage)

	huma.Register(s.api, huma.Operation{
		OperationID: "getForm",
		Method:      http.MethodGet,
		Path:        "/api/v1/forms/{id}",
		Summary:     "Get form",
		Description: "Returns a live form with the previous and next forms in its owner's list",
		Tags:        []string{"Forms"},
	}, s.handleGetForm)

	huma.Register(s.api, huma.Operation{
		OperationID: "editForm",
		Method:      http.MethodGet,
		Path:        "/api/v1/forms/{id}/edit",
		Summary:     "Get form for editing",
		Description: "Returns a live form the caller owns, with neighbors",
		Tags:        []string{"Forms"},
	}, s.handleEditForm)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateForm",
		Method:      http.MethodPut,
		Path:        "/api/v1/forms/{id}",
		Summary:     "Update form",
		Description: "Replaces the editable fields of a live form the caller owns",
		Tags:        []string{"Forms"},
	}, s.handleUpdateForm)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteForm",
		Method:      http.MethodDelete,
		Path:        "/api/v1/forms/{id}",
		Summary:     "Delete form",
		Description: "Moves a form to the trash, or removes it permanently with hard=1",
		Tags:        []string{"Forms"},
	}, s.handleDeleteForm)

	huma.Register(s.api, huma.Operation{
		OperationID: "restoreForm",
		Method:      http.MethodPost,
		Path:        "/api/v1/forms/{id}/restore",
		Summary:     "Restore form",
		Description: "Brings a trashed form back. Fails with DUPLICATE_RECORD when a live form already holds its name and rank.",
		Tags:        []string{"Forms"},
	}, s.handleRestoreForm)
}

// === DTOs ===

// FormRequest is the request body for creating or updating a form.
// Fields are validated by the form service so every failure reports per-field details.
type FormRequest struct {
	Name         string `json:"name,omitempty" doc:"Form name, 2 to 200 characters"`
	RankType     string `json:"rank_type,omitempty" doc:"Kyu or Dan" example:"Kyu"`
	RankNumber   int    `json:"rank_number,omitempty" doc:"Rank number, 1 or more" example:"7"`
	BeltColor    string `json:"belt_color,omitempty" doc:"Belt colour"`
	Category     string `json:"category,omitempty" doc:"Kata, Bunkai, Kumite, Weapon or Other. Defaults to Kata."`
	Description  string `json:"description,omitempty" doc:"Notes, up to 5000 characters"`
	ReferenceURL string `json:"reference_url,omitempty" doc:"Link to a reference video or page"`
	Learned      bool   `json:"learned,omitempty" doc:"Whether the form has been learned"`
}

func (r FormRequest) toInput() service.FormInput {
	return service.FormInput{
		Name:         r.Name,
		RankType:     r.RankType,
		RankNumber:   r.RankNumber,
		BeltColor:    r.BeltColor,
		Category:     r.Category,
		Description:  r.Description,
		ReferenceURL: r.ReferenceURL,
		Learned:      r.Learned,
	}
}

// FormResponse is a form in API responses.
type FormResponse struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	Name         string     `json:"name"`
	RankType     string     `json:"rank_type"`
	RankNumber   int        `json:"rank_number"`
	Rank         string     `json:"rank" doc:"Display rank, e.g. Kyu 7"`
	BeltColor    string     `json:"belt_color,omitempty"`
	Category     string     `json:"category"`
	Description  string     `json:"description"`
	ReferenceURL string     `json:"reference_url,omitempty"`
	Learned      bool       `json:"learned"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

func toFormResponse(f *domain.Form) FormResponse {
	return FormResponse{
		ID:           f.ID,
		OwnerID:      f.OwnerID,
		Name:         f.Name,
		RankType:     string(f.RankType),
		RankNumber:   f.RankNumber,
		Rank:         f.Rank().String(),
		BeltColor:    f.BeltColor,
		Category:     string(f.Category),
		Description:  f.Description,
		ReferenceURL: f.ReferenceURL,
		Learned:      f.Learned,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
		DeletedAt:    f.DeletedAt,
	}
}

func toFormResponses(forms []*domain.Form) []FormResponse {
	out := make([]FormResponse, 0, len(forms))
	for _, f := range forms {
		out = append(out, toFormResponse(f))
	}
	return out
}

// FormListResponse is a list of forms.
type FormListResponse struct {
	Forms []FormResponse `json:"forms"`
	Total int            `json:"total"`
}

// FormListOutput wraps the form list for Huma.
type FormListOutput struct {
	Body FormListResponse
}

// FormOutput wraps a single form for Huma.
type FormOutput struct {
	Body FormResponse
}

// FormDetailResponse is a form with its place in the owner's list.
type FormDetailResponse struct {
	Form      FormResponse      `json:"form"`
	Neighbors service.Neighbors `json:"neighbors"`
	IsOwner   bool              `json:"is_owner" doc:"Whether the caller owns the form"`
}

// FormDetailOutput wraps the detail response for Huma.
type FormDetailOutput struct {
	Body FormDetailResponse
}

// FormIDInput identifies a form by path.
type FormIDInput struct {
	ID string `path:"id" maxLength:"64" doc:"Form ID"`
}

// CreateFormInput wraps the create request for Huma.
type CreateFormInput struct {
	Body FormRequest
}

// UpdateFormInput wraps the update request for Huma.
type UpdateFormInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Form ID"`
	Body FormRequest
}

// DeleteFormInput selects soft or hard delete.
type DeleteFormInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Form ID"`
	Hard bool   `query:"hard" doc:"Remove permanently instead of moving to the trash"`
}

// DeleteFormResponse reports the outcome of a delete.
// Form is the trashed form for a soft delete and absent after a hard delete.
type DeleteFormResponse struct {
	ID     string        `json:"id"`
	Purged bool          `json:"purged"`
	Form   *FormResponse `json:"form,omitempty"`
}

// DeleteFormOutput wraps the delete response for Huma.
type DeleteFormOutput struct {
	Body DeleteFormResponse
}

// NewFormPageOutput wraps the add-form payload for Huma.
type NewFormPageOutput struct {
	Body *service.NewFormPage
}

// === Handlers ===

func (s *Server) handleListForms(ctx context.Context, _ *struct{}) (*FormListOutput, error) {
	forms, err := s.services.Ordering.Ordered(ctx, OptionalUserID(ctx))
	if err != nil {
		return nil, err
	}

	return &FormListOutput{
		Body: FormListResponse{Forms: toFormResponses(forms), Total: len(forms)},
	}, nil
}

func (s *Server) handleCreateForm(ctx context.Context, input *CreateFormInput) (*FormOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	form, err := s.services.Forms.Create(ctx, userID, input.Body.toInput())
	if err != nil {
		return nil, err
	}
	return &FormOutput{Body: toFormResponse(form)}, nil
}

func (s *Server) handleListTrash(ctx context.Context, _ *struct{}) (*FormListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	forms, err := s.services.Forms.FindTrashed(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &FormListOutput{
		Body: FormListResponse{Forms: toFormResponses(forms), Total: len(forms)},
	}, nil
}

func (s *Server) handleNewFormPage(ctx context.Context, _ *struct{}) (*NewFormPageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return &NewFormPageOutput{Body: s.services.Pages.NewFormPage(ctx, userID)}, nil
}

func (s *Server) handleGetForm(ctx context.Context, input *FormIDInput) (*FormDetailOutput, error) {
	form, err := s.services.Forms.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return s.formDetail(ctx, form)
}

func (s *Server) handleEditForm(ctx context.Context, input *FormIDInput) (*FormDetailOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	form, err := s.services.Forms.GetForEdit(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return s.formDetail(ctx, form)
}

func (s *Server) handleUpdateForm(ctx context.Context, input *UpdateFormInput) (*FormOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	form, err := s.services.Forms.Update(ctx, userID, input.ID, input.Body.toInput())
	if err != nil {
		return nil, err
	}
	return &FormOutput{Body: toFormResponse(form)}, nil
}

func (s *Server) handleDeleteForm(ctx context.Context, input *DeleteFormInput) (*DeleteFormOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if input.Hard {
		if err := s.services.Forms.HardDelete(ctx, userID, input.ID); err != nil {
			return nil, err
		}
		return &DeleteFormOutput{Body: DeleteFormResponse{ID: input.ID, Purged: true}}, nil
	}

	form, err := s.services.Forms.SoftDelete(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	resp := toFormResponse(form)
	return &DeleteFormOutput{Body: DeleteFormResponse{ID: form.ID, Form: &resp}}, nil
}

func (s *Server) handleRestoreForm(ctx context.Context, input *FormIDInput) (*FormOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	form, err := s.services.Forms.Restore(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &FormOutput{Body: toFormResponse(form)}, nil
}

// formDetail attaches the form's neighbors in its owner's ordered live list.
func (s *Server) formDetail(ctx context.Context, form *domain.Form) (*FormDetailOutput, error) {
	neighbors, err := s.services.Ordering.Neighbors(ctx, form.OwnerID, form.ID)
	if err != nil {
		return nil, err
	}

	return &FormDetailOutput{
		Body: FormDetailResponse{
			Form:      toFormResponse(form),
			Neighbors: neighbors,
			IsOwner:   form.OwnedBy(OptionalUserID(ctx)),
		},
	}, nil
}
