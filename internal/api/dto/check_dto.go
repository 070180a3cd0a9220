package dto

// CheckDetail 单个用户/仓库粒度的巡检明细
type CheckDetail struct {
	User       string `json:"user"`
	Repository string `json:"repository,omitempty"`
	OldStatus  string `json:"old_status,omitempty"`
	NewStatus  string `json:"new_status,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CheckSummary 一轮巡检的聚合结果，管理端手动触发时原样返回
type CheckSummary struct {
	UsersChecked        int           `json:"users_checked"`
	RepositoriesUpdated int           `json:"repositories_updated"`
	Errors              int           `json:"errors"`
	Details             []CheckDetail `json:"details"`
}
