package dto

type SkillMatchResponse struct {
	Type      string `json:"type"`
	UserSkill string `json:"user_skill"`
	PostSkill string `json:"post_skill"`
}

type RecommendationResponse struct {
	Post         PostResponse         `json:"post"`
	Score        float64              `json:"score"`
	MatchType    string               `json:"match_type"`
	MatchLabel   string               `json:"match_label"`
	MatchReasons []string             `json:"match_reasons"`
	SkillMatches []SkillMatchResponse `json:"skill_matches"`
}

type SkillsAnalysisResponse struct {
	TeachCount int  `json:"teach_count"`
	LearnCount int  `json:"learn_count"`
	HasSkills  bool `json:"has_skills"`
}

type RecommendationsResponse struct {
	Recommendations    []RecommendationResponse `json:"recommendations"`
	UserSkillsAnalysis SkillsAnalysisResponse   `json:"user_skills_analysis"`
}

type TrendingSkillResponse struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

type TrendingResponse struct {
	TrendingSkills []TrendingSkillResponse `json:"trending_skills"`
	PopularPosts   []PostResponse          `json:"popular_posts"`
}
