package status

import (
	"github.com/gin-gonic/gin"

	"consultation-triage/pkg/response"
)

const ServiceName = "consultation-triage"

func (srv *Server) mapHandlers() {
	srv.gin.Use(gin.Recovery())
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/run", srv.runSnapshot)
}

// healthCheck reports process liveness.
func (srv *Server) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"service": ServiceName,
	})
}

// runSnapshot returns the current run report: counts plus per-task results.
func (srv *Server) runSnapshot(c *gin.Context) {
	report := srv.snapshot()

	results := make([]gin.H, 0, len(report.Results))
	for _, res := range report.Results {
		entry := gin.H{
			"task_id":  res.Task.ID,
			"job_type": res.JobType,
			"path":     res.Outcome.Path.String(),
			"result":   res.Outcome.Result.String(),
		}
		if res.Outcome.SkipReason != "" {
			entry["skip_reason"] = res.Outcome.SkipReason
		}
		if len(res.Charges) > 0 {
			charges := make([]gin.H, 0, len(res.Charges))
			for _, c := range res.Charges {
				charges = append(charges, gin.H{
					"label":    c.Label,
					"quantity": c.Quantity,
					"total":    c.Total,
				})
			}
			entry["charges"] = charges
		}
		if res.Err != nil {
			entry["error"] = res.Err.Error()
		}
		results = append(results, entry)
	}

	response.OK(c, gin.H{
		"processed": report.Processed,
		"succeeded": report.Succeeded,
		"skipped":   report.Skipped,
		"failed":    report.Failed,
		"results":   results,
	})
}
