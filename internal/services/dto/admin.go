package dto

type PlatformStats struct {
	ProfilesByRole map[string]int64 `json:"profiles_by_role"`
	JobsByStatus   map[string]int64 `json:"jobs_by_status"`
	Proposals      int64            `json:"proposals"`
	Reviews        int64            `json:"reviews"`
	Messages       int64            `json:"messages"`
}
