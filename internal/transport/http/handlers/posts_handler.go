package handlers

import (
	"errors"
	"net/http"

	"github.com/Hareshku/growtogather-backend/internal/pkg/validate"
	authsvc "github.com/Hareshku/growtogather-backend/internal/services/auth"
	badgessvc "github.com/Hareshku/growtogather-backend/internal/services/badges"
	postssvc "github.com/Hareshku/growtogather-backend/internal/services/posts"
	"github.com/Hareshku/growtogather-backend/internal/transport/http/dto"
	httperrors "github.com/Hareshku/growtogather-backend/internal/transport/http/errors"
)

type PostsHandler struct {
	posts  *postssvc.Service
	badges *badgessvc.Notifier
}

func NewPostsHandler(posts *postssvc.Service, badges *badgessvc.Notifier) *PostsHandler {
	return &PostsHandler{posts: posts, badges: badges}
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.posts == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	req, ok := decodePostRequest(w, r)
	if !ok {
		return
	}

	rec, err := h.posts.Create(r.Context(), identity.UserID, postInput(req))
	if err != nil {
		handlePostsError(w, err)
		return
	}

	if h.badges != nil {
		h.badges.Notify(r.Context(), identity.UserID, rec.ID, badgessvc.KindPostPublished)
	}

	httperrors.Write(w, http.StatusCreated, postResponse(rec))
}

func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.posts == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	postID, ok := pathID(r, "postID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid post id")
		return
	}
	req, ok := decodePostRequest(w, r)
	if !ok {
		return
	}

	rec, err := h.posts.Update(r.Context(), postID, identity.UserID, postInput(req))
	if err != nil {
		handlePostsError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, postResponse(rec))
}

func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.posts == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	postID, ok := pathID(r, "postID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid post id")
		return
	}

	rec, err := h.posts.View(r.Context(), identity.UserID, postID)
	if err != nil {
		handlePostsError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, postResponse(rec))
}

func (h *PostsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.posts == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	records, err := h.posts.ListByAuthor(r.Context(), identity.UserID, queryInt(r, "limit"))
	if err != nil {
		handlePostsError(w, err)
		return
	}

	out := make([]dto.PostResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, postResponse(rec))
	}
	httperrors.Write(w, http.StatusOK, dto.PostListResponse{Posts: out})
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.posts == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	postID, ok := pathID(r, "postID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid post id")
		return
	}

	if err := h.posts.Delete(r.Context(), postID, identity.UserID); err != nil {
		handlePostsError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodePostRequest(w http.ResponseWriter, r *http.Request) (dto.PostRequest, bool) {
	var req dto.PostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return dto.PostRequest{}, false
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return dto.PostRequest{}, false
	}
	return req, true
}

func postInput(req dto.PostRequest) postssvc.PostInput {
	return postssvc.PostInput{
		Title:                req.Title,
		Description:          req.Description,
		SkillsToTeach:        req.SkillsToTeach,
		SkillsToLearn:        req.SkillsToLearn,
		ExperienceLevel:      req.ExperienceLevel,
		PreferredMeetingType: req.PreferredMeetingType,
	}
}

func handlePostsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, postssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, postssvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "you are not the author of this post")
	case errors.Is(err, postssvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "post not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
