package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/Hareshku/growtogather-backend/internal/services/auth"
	recsvc "github.com/Hareshku/growtogather-backend/internal/services/recommendations"
	trendingsvc "github.com/Hareshku/growtogather-backend/internal/services/trending"
	"github.com/Hareshku/growtogather-backend/internal/transport/http/dto"
	httperrors "github.com/Hareshku/growtogather-backend/internal/transport/http/errors"
)

type RecommendationsHandler struct {
	recommendations *recsvc.Service
	trending        *trendingsvc.Service
}

func NewRecommendationsHandler(recommendations *recsvc.Service, trending *trendingsvc.Service) *RecommendationsHandler {
	return &RecommendationsHandler{
		recommendations: recommendations,
		trending:        trending,
	}
}

func (h *RecommendationsHandler) Personalized(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.recommendations == nil {
		writeInternal(w, "RECOMMENDATIONS_UNAVAILABLE", "recommendations service is unavailable")
		return
	}

	query := r.URL.Query()
	filters := recsvc.Filters{
		Skill:           query.Get("skillFilter"),
		ExperienceLevel: query.Get("experienceLevel"),
		MeetingType:     query.Get("meetingType"),
		Limit:           queryInt(r, "limit"),
	}

	result, err := h.recommendations.Personalized(r.Context(), identity.UserID, filters)
	if err != nil {
		if errors.Is(err, recsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid recommendation filters")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to compute recommendations")
		return
	}

	out := make([]dto.RecommendationResponse, 0, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		matches := make([]dto.SkillMatchResponse, 0, len(rec.SkillMatches))
		for _, match := range rec.SkillMatches {
			matches = append(matches, dto.SkillMatchResponse{
				Type:      match.Type,
				UserSkill: match.UserSkill,
				PostSkill: match.PostSkill,
			})
		}
		out = append(out, dto.RecommendationResponse{
			Post:         postResponse(rec.Post),
			Score:        rec.Score,
			MatchType:    rec.MatchType,
			MatchLabel:   string(rec.MatchLabel),
			MatchReasons: append([]string(nil), rec.MatchReasons...),
			SkillMatches: matches,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.RecommendationsResponse{
		Recommendations: out,
		UserSkillsAnalysis: dto.SkillsAnalysisResponse{
			TeachCount: result.Analysis.TeachCount,
			LearnCount: result.Analysis.LearnCount,
			HasSkills:  result.Analysis.HasSkills,
		},
	})
}

func (h *RecommendationsHandler) Trending(w http.ResponseWriter, r *http.Request) {
	if h.trending == nil {
		writeInternal(w, "TRENDING_UNAVAILABLE", "trending service is unavailable")
		return
	}

	snapshot, err := h.trending.Snapshot(r.Context(), queryInt(r, "skillLimit"), queryInt(r, "postLimit"))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to compute trending data")
		return
	}

	skills := make([]dto.TrendingSkillResponse, 0, len(snapshot.TrendingSkills))
	for _, skill := range snapshot.TrendingSkills {
		skills = append(skills, dto.TrendingSkillResponse{Skill: skill.Skill, Count: skill.Count})
	}
	posts := make([]dto.PostResponse, 0, len(snapshot.PopularPosts))
	for _, post := range snapshot.PopularPosts {
		posts = append(posts, popularPostResponse(post))
	}

	httperrors.Write(w, http.StatusOK, dto.TrendingResponse{
		TrendingSkills: skills,
		PopularPosts:   posts,
	})
}
