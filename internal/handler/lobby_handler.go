package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"squadup/backend/internal/lobby"
	"squadup/backend/internal/models"
	"squadup/backend/internal/query"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// region --- DTOs ---

type CreateLobbyInput struct {
	Title            string                  `json:"title" binding:"required,max=100" example:"Ranked push tonight"`
	Description      string                  `json:"description" binding:"max=500"`
	Game             models.Game             `json:"game" binding:"required" example:"cod-mobile"`
	Mode             string                  `json:"mode" binding:"required" example:"Ranked"`
	MaxPlayers       int                     `json:"max_players" binding:"required,min=1,max=100" example:"4"`
	SkillLevel       models.SkillLevel       `json:"skill_level" example:"pro"`
	Language         string                  `json:"language" example:"English"`
	Region           string                  `json:"region" example:"EU"`
	GenderPreference models.GenderPreference `json:"gender_preference" example:"any"`
	VoiceChat        bool                    `json:"voice_chat"`
	IsPrivate        bool                    `json:"is_private"`
	Password         string                  `json:"password"`
}

type UpdateLobbyInput struct {
	Title            *string                  `json:"title" binding:"omitempty,max=100"`
	Description      *string                  `json:"description" binding:"omitempty,max=500"`
	Game             *models.Game             `json:"game"`
	Mode             *string                  `json:"mode"`
	MaxPlayers       *int                     `json:"max_players" binding:"omitempty,min=1,max=100"`
	SkillLevel       *models.SkillLevel       `json:"skill_level"`
	Language         *string                  `json:"language"`
	Region           *string                  `json:"region"`
	GenderPreference *models.GenderPreference `json:"gender_preference"`
	VoiceChat        *bool                    `json:"voice_chat"`
	IsPrivate        *bool                    `json:"is_private"`
	Password         *string                  `json:"password"`
}

type JoinLobbyInput struct {
	Password string `json:"password"`
}

// endregion

// CreateLobby godoc
// @Summary      Create a new lobby
// @Description  Creates a new lobby, making the creator the host and its first member.
// @Tags         lobbies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body CreateLobbyInput true "Lobby Info"
// @Success      201  {object}  lobby.Detail
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /lobbies [post]
func (h *Handler) CreateLobby(c *gin.Context) {
	var input CreateLobbyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	detail, err := h.lobbies.CreateLobby(c.Request.Context(), lobby.CreateInput{
		Title:            input.Title,
		Description:      input.Description,
		Game:             input.Game,
		Mode:             input.Mode,
		MaxPlayers:       input.MaxPlayers,
		SkillLevel:       input.SkillLevel,
		Language:         input.Language,
		Region:           input.Region,
		GenderPreference: input.GenderPreference,
		VoiceChat:        input.VoiceChat,
		IsPrivate:        input.IsPrivate,
		Password:         input.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, detail)
}

// SearchLobbies godoc
// @Summary      Search for lobbies
// @Description  Gets a paginated list of active lobbies, newest first. The text query matches the title or the host nickname.
// @Tags         lobbies
// @Produce      json
// @Param        game         query string false "Filter by game" Enums(cod-mobile, pubg-mobile, free-fire)
// @Param        q            query string false "Text search"
// @Param        skill_level  query string false "Filter by skill level"
// @Param        language     query string false "Filter by language"
// @Param        region       query string false "Filter by region"
// @Param        voice_chat   query bool   false "Filter by voice chat"
// @Param        open_only    query bool   false "Hide full lobbies"
// @Param        page         query int    false "Page number" default(1)
// @Param        limit        query int    false "Items per page" default(20)
// @Success      200 {object} PaginatedLobbyResponse
// @Failure      400 {object} ErrorResponse
// @Router       /lobbies [get]
func (h *Handler) SearchLobbies(c *gin.Context) {
	q := query.Query{
		Game:       models.Game(c.Query("game")),
		Text:       c.Query("q"),
		SkillLevel: models.SkillLevel(c.Query("skill_level")),
		Language:   c.Query("language"),
		Region:     c.Query("region"),
	}
	if q.Game != "" && !q.Game.Valid() {
		badRequest(c, errors.New("unsupported game"))
		return
	}
	if raw := c.Query("voice_chat"); raw != "" {
		voice, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, errors.New("voice_chat must be a boolean"))
			return
		}
		q.VoiceChat = &voice
	}
	q.OpenOnly, _ = strconv.ParseBool(c.Query("open_only"))
	q.Page, q.Limit = pageParams(c)

	res, err := h.lobbies.ListLobbies(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(res.Lobbies, int64(res.Total), res.Page, res.Limit))
}

// GetLobbyStats godoc
// @Summary      Lobby statistics
// @Description  Counts active, voice-enabled and pro lobbies.
// @Tags         lobbies
// @Produce      json
// @Success      200 {object} query.Stats
// @Router       /lobbies/stats [get]
func (h *Handler) GetLobbyStats(c *gin.Context) {
	stats, err := h.lobbies.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetLobbyByID godoc
// @Summary      Get a lobby
// @Description  Gets an active lobby with its members.
// @Tags         lobbies
// @Produce      json
// @Param        id path string true "Lobby ID"
// @Success      200 {object} lobby.Detail
// @Failure      404 {object} ErrorResponse
// @Router       /lobbies/{id} [get]
func (h *Handler) GetLobbyByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.lobbies.GetLobby(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateLobby godoc
// @Summary      Update a lobby
// @Description  Updates lobby settings. Only the host can do this.
// @Tags         lobbies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path string           true "Lobby ID"
// @Param        input body UpdateLobbyInput true "Fields to change"
// @Success      200 {object} lobby.Detail
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Only the host can update the lobby"
// @Failure      404 {object} ErrorResponse
// @Router       /lobbies/{id} [put]
func (h *Handler) UpdateLobby(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input UpdateLobbyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	detail, err := h.lobbies.UpdateLobby(c.Request.Context(), id, lobby.UpdateInput{
		Title:            input.Title,
		Description:      input.Description,
		Game:             input.Game,
		Mode:             input.Mode,
		MaxPlayers:       input.MaxPlayers,
		SkillLevel:       input.SkillLevel,
		Language:         input.Language,
		Region:           input.Region,
		GenderPreference: input.GenderPreference,
		VoiceChat:        input.VoiceChat,
		IsPrivate:        input.IsPrivate,
		Password:         input.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// DeleteLobby godoc
// @Summary      Delete a lobby
// @Description  Closes the lobby and removes all members. Repeated deletes succeed.
// @Tags         lobbies
// @Security     BearerAuth
// @Param        id path string true "Lobby ID"
// @Success      204
// @Failure      403 {object} ErrorResponse "Only the host can delete the lobby"
// @Failure      404 {object} ErrorResponse
// @Router       /lobbies/{id} [delete]
func (h *Handler) DeleteLobby(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lobbies.DeleteLobby(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// JoinLobby godoc
// @Summary      Join a lobby
// @Description  Adds the current user to a lobby. Private lobbies need the password.
// @Tags         lobbies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path string         true  "Lobby ID"
// @Param        input body JoinLobbyInput false "Password for private lobbies"
// @Success      200 {object} lobby.Detail
// @Failure      403 {object} ErrorResponse "Wrong password"
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Lobby is full or user is already a member"
// @Failure      503 {object} ErrorResponse "Lobby is busy"
// @Router       /lobbies/{id}/join [post]
func (h *Handler) JoinLobby(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input JoinLobbyInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	detail, err := h.lobbies.JoinLobby(c.Request.Context(), id, input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// LeaveLobby godoc
// @Summary      Leave a lobby
// @Description  Removes the current user from the lobby. Leaving twice is not an error.
// @Tags         lobbies
// @Security     BearerAuth
// @Param        id path string true "Lobby ID"
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Router       /lobbies/{id}/leave [post]
func (h *Handler) LeaveLobby(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lobbies.LeaveLobby(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// KickMember godoc
// @Summary      Kick a member
// @Description  Removes a member from the lobby. Only the host can do this.
// @Tags         lobbies
// @Security     BearerAuth
// @Param        id     path string true "Lobby ID"
// @Param        userID path string true "User ID to kick"
// @Success      204
// @Failure      400 {object} ErrorResponse "Host cannot kick themselves"
// @Failure      403 {object} ErrorResponse "Only the host can kick members"
// @Failure      404 {object} ErrorResponse
// @Router       /lobbies/{id}/members/{userID} [delete]
func (h *Handler) KickMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	member, ok := pathID(c, "userID")
	if !ok {
		return
	}
	if err := h.lobbies.KickMember(c.Request.Context(), id, member); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, errors.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
