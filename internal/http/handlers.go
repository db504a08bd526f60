package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/confide/internal/store"
)

// --- Structs for request binding ---

type CreateConfessionInput struct {
	Content string  `json:"content" binding:"required,max=1000"`
	AnonID  string  `json:"anon_id"`
	City    *string `json:"city"`
}

type EngagementInput struct {
	ConfessionID uint   `json:"confession_id" binding:"required"`
	AnonID       string `json:"anon_id" binding:"required"`
}

type CreateCommentInput struct {
	ConfessionID uint   `json:"confession_id" binding:"required"`
	Content      string `json:"content" binding:"required,max=1000"`
	AnonID       string `json:"anon_id" binding:"required"`
}

// --- Handlers ---

type Env struct {
	Stores *store.Stores
}

// storeError maps store sentinel errors to HTTP statuses. Anything
// unrecognized is a persistence failure: logged, reported as 500 with
// a generic message.
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("Store error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// --- Confessions ---

func (e *Env) CreateConfession(c *gin.Context) {
	var input CreateConfessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	ip := c.ClientIP()
	var ipPtr *string
	if ip != "" {
		ipPtr = &ip
	}

	confession, err := e.Stores.Confessions.Create(input.Content, input.AnonID, input.City, ipPtr)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"id": confession.ID}, "status": true})
}

func (e *Env) GetConfessions(c *gin.Context) {
	confessions, err := e.Stores.Confessions.ListAll()
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": confessions, "status": true})
}

func (e *Env) GetNearConfessions(c *gin.Context) {
	confessions, err := e.Stores.Confessions.ListNear(c.Query("city"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": confessions, "status": true})
}

func (e *Env) GetTrendingConfessions(c *gin.Context) {
	confessions, err := e.Stores.Confessions.ListTrending()
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": confessions, "status": true})
}

func (e *Env) GetRandomConfessions(c *gin.Context) {
	confessions, err := e.Stores.Confessions.ListRandom()
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": confessions, "status": true})
}

func (e *Env) GetMyConfessions(c *gin.Context) {
	confessions, err := e.Stores.Confessions.ListMine(c.Query("anon_id"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": confessions, "status": true})
}

func (e *Env) HideConfession(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid confession ID"})
		return
	}
	if err := e.Stores.Confessions.Hide(uint(id)); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Confession hidden successfully"})
}

// --- Likes ---

func (e *Env) LikeConfession(c *gin.Context) {
	var input EngagementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confession_id and anon_id are required"})
		return
	}
	like, err := e.Stores.Engagements.Add(store.KindLike, input.ConfessionID, input.AnonID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": like})
}

func (e *Env) HasLiked(c *gin.Context) {
	confessionID, anonID, ok := engagementQuery(c)
	if !ok {
		return
	}
	hasLiked, err := e.Stores.Engagements.Has(store.KindLike, confessionID, anonID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasLiked": hasLiked})
}

func (e *Env) UnlikeConfession(c *gin.Context) {
	confessionID, anonID, ok := engagementQuery(c)
	if !ok {
		return
	}
	if err := e.Stores.Engagements.Remove(confessionID, anonID); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Like removed successfully"})
}

// --- Reports ---

func (e *Env) ReportConfession(c *gin.Context) {
	var input EngagementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confession_id and anon_id are required"})
		return
	}
	report, err := e.Stores.Engagements.Add(store.KindReport, input.ConfessionID, input.AnonID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (e *Env) HasReported(c *gin.Context) {
	confessionID, anonID, ok := engagementQuery(c)
	if !ok {
		return
	}
	hasReported, err := e.Stores.Engagements.Has(store.KindReport, confessionID, anonID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasReported": hasReported})
}

// engagementQuery parses the confession_id/anon_id query pair shared
// by the like/report read and delete routes. It writes the 400 itself
// and returns ok=false when either is missing or malformed.
func engagementQuery(c *gin.Context) (uint, string, bool) {
	rawID := c.Query("confession_id")
	anonID := c.Query("anon_id")
	if rawID == "" || anonID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confession_id and anon_id are required"})
		return 0, "", false
	}
	confessionID, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid confession ID"})
		return 0, "", false
	}
	return uint(confessionID), anonID, true
}

// --- Comments ---

func (e *Env) CreateComment(c *gin.Context) {
	var input CreateCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confession_id, content, and anon_id are required"})
		return
	}
	comment, err := e.Stores.Comments.Add(input.ConfessionID, input.Content, input.AnonID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": comment})
}

func (e *Env) GetComments(c *gin.Context) {
	rawID := c.Query("confession_id")
	if rawID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confession_id is required"})
		return
	}
	confessionID, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid confession ID"})
		return
	}
	comments, err := e.Stores.Comments.ListFor(uint(confessionID))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// Healthz is a liveness probe.
func (e *Env) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
