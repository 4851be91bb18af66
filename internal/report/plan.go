package report

import "github.com/runnerr0/pulse/internal/health"

// Action priorities, highest first.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Action is one recommendation in a report's action plan.
type Action struct {
	Priority string `json:"priority"`
	Title    string `json:"title"`
	Why      string `json:"why"`
	How      string `json:"how"`
	KPI      string `json:"kpi"`
}

var (
	cadenceAction = Action{
		Priority: PriorityHigh,
		Title:    "Post 3 times per week",
		Why:      "Platforms reward steady activity; long gaps cut reach",
		How:      "Simple calendar: Mon=product, Wed=behind the scenes, Fri=promo",
		KPI:      "3 posts/week for 4 weeks",
	}
	ctaAction = Action{
		Priority: PriorityMedium,
		Title:    "Close captions with a call to action",
		Why:      "More comments and clicks mean more distribution",
		How:      "End captions with a question or a direct ask (order link, DM, visit)",
		KPI:      "comments/post +20%",
	}
	pillarsAction = Action{
		Priority: PriorityMedium,
		Title:    "Define 3-4 content pillars",
		Why:      "A single theme wears out the audience and limits discovery",
		How:      "Rotate menu, promos, events and community posts through the week",
		KPI:      "at least 3 topics covered per 10 posts",
	}
	hashtagAction = Action{
		Priority: PriorityLow,
		Title:    "Build a reusable hashtag set",
		Why:      "A few consistent local and niche tags help new viewers find the account",
		How:      "Keep 5-8 tags: brand, city, neighborhood and 2-3 niche tags",
		KPI:      "5+ distinct hashtags in use",
	}
	trackingAction = Action{
		Priority: PriorityLow,
		Title:    "Track likes and comments per post",
		Why:      "Engagement could not be estimated from the available data",
		How:      "Log likes and comments weekly from the platform's insights",
		KPI:      "engagement recorded for every post",
	}
	maintainAction = Action{
		Priority: PriorityLow,
		Title:    "Keep the current strategy",
		Why:      "No weak signal stands out",
		How:      "Review this report monthly and compare the health score",
		KPI:      "health score stable or rising",
	}
)

// Plan derives the action plan from an assessment's signals, ordered by
// priority. An account with no weak signal gets a single maintenance item.
func Plan(a health.Assessment) []Action {
	s := a.Signals
	var plan []Action

	if s.StaleAccount || !s.RecentActivity {
		plan = append(plan, cadenceAction)
	}
	if s.LowCTAUsage {
		plan = append(plan, ctaAction)
	}
	if s.LowTopicDiversity {
		plan = append(plan, pillarsAction)
	}
	if s.LowHashtagUsage {
		plan = append(plan, hashtagAction)
	}
	if s.EngagementUnknown {
		plan = append(plan, trackingAction)
	}

	if len(plan) == 0 {
		plan = append(plan, maintainAction)
	}
	return plan
}
