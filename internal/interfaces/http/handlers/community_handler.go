package handlers

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/H2Siting/internal/application/community"
	domain "github.com/turtacn/H2Siting/internal/domain/community"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

const multipartMemory = 4 << 20

// CommunityHandler serves the community pages' data.
type CommunityHandler struct {
	svc       community.Service
	maxUpload int64
	logger    logging.Logger
}

// NewCommunityHandler creates a new CommunityHandler. maxUpload bounds the
// whole multipart body of a post.
func NewCommunityHandler(svc community.Service, maxUpload int64, logger logging.Logger) *CommunityHandler {
	if maxUpload <= 0 {
		maxUpload = community.DefaultMaxAttachmentBytes + multipartMemory
	}
	return &CommunityHandler{svc: svc, maxUpload: maxUpload, logger: logger}
}

// Overview handles GET /community/?q=.
func (h *CommunityHandler) Overview(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Overview(r.Context(), currentUserID(r), r.URL.Query().Get("q"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Join handles POST /community/join.
func (h *CommunityHandler) Join(w http.ResponseWriter, r *http.Request) {
	var communityID int64
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var body struct {
			CommunityID int64 `json:"community_id"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeAppError(w, err)
			return
		}
		communityID = body.CommunityID
	} else {
		communityID, _ = strconv.ParseInt(r.PostFormValue("community_id"), 10, 64)
	}

	joined, err := h.svc.Join(r.Context(), currentUserID(r), communityID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	msg := "You are already a member of this community."
	if joined {
		msg = "You have joined the community!"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "joined": joined, "message": msg})
}

// CreatePost handles POST /community/post as a multipart form with
// community_id, content and an optional file.
func (h *CommunityHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil && err != http.ErrNotMultipart {
		writeAppError(w, errors.New(errors.ErrCodeAttachmentTooBig, "attachment exceeds the upload limit").WithCause(err))
		return
	}
	communityID, _ := strconv.ParseInt(r.FormValue("community_id"), 10, 64)
	input := &community.CreatePostInput{
		UserID:      currentUserID(r),
		CommunityID: communityID,
		Content:     r.FormValue("content"),
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		input.File = &community.FileUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		}
	case err != http.ErrMissingFile && err != http.ErrNotMultipart:
		writeAppError(w, errors.New(errors.ErrCodePostInvalid, "attachment could not be read").WithCause(err))
		return
	}

	post, err := h.svc.CreatePost(r.Context(), input)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"status": "success", "message": "Post created!", "post": post})
}

// CommunityPosts handles GET /community/{id}/posts.
func (h *CommunityHandler) CommunityPosts(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeAppError(w, err)
		return
	}
	posts, err := h.svc.RecentPosts(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writePosts(w, posts)
}

// MyPosts handles GET /community/posts/mine.
func (h *CommunityHandler) MyPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.UserPosts(r.Context(), currentUserID(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writePosts(w, posts)
}

func writePosts(w http.ResponseWriter, posts []*domain.Post) {
	if posts == nil {
		posts = []*domain.Post{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// File handles GET /community/files/* by redirecting to a short-lived
// object storage URL.
func (h *CommunityHandler) File(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		writeAppError(w, errors.NotFound("file not found"))
		return
	}
	target, err := h.svc.AttachmentURL(r.Context(), key)
	if err != nil {
		h.logger.Warn("attachment url failed", logging.String("key", key), logging.Err(err))
		writeAppError(w, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

//Personal.AI order the ending
