package portal

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"consultation-triage/config"
	"consultation-triage/internal/model"
	"consultation-triage/pkg/browser"
	pkgLog "consultation-triage/pkg/log"
)

// Selectors for the portal's task and work-order views. These track the
// markup of the hosted portal; when a page changes, this block is the only
// place to touch.
const (
	selTaskRows         = "tr.taskElement"
	selTaskNotes        = "[name=Notes]"
	selTaskIDInput      = "[name=nTaskID]"
	selCustomerID       = "xpath=//td[normalize-space(text())='Customer ID']/following-sibling::td/b"
	selCustomerName     = "xpath=//td[normalize-space(text())='Customer Name']/following-sibling::td/b"
	selDispatchHeader   = "xpath=//b[contains(text(),'Dispatch for Ticket')]"
	selWorkOrderRows    = "#custWork #workShow table tr"
	selWOStatus         = "xpath=//td[@class='detailHeader' and normalize-space(text())='Status:']/following-sibling::td//span"
	selWOAdditionalNote = "#AdditionalNotes"
	selWOArrivalDate    = "#ArrivalOnsite"
	selWOArrivalTime    = "#ArrivalTime"
	selWODepartureDate  = "#CompletedDate"
	selWODepartureTime  = "#CompletedTime"
	selNotesHistory     = "xpath=//td[contains(., 'CUSTOMER:')]"
	selSpawnBilling     = "[name=SpawnBillingTask]"
)

type implRepository struct {
	session browser.Session
	l       pkgLog.Logger
	cfg     config.PortalConfig
	woCache *expirable.LRU[string, model.WorkOrder]
	now     func() time.Time
}

// New creates a portal repository over an authenticated browser session.
func New(session browser.Session, l pkgLog.Logger, cfg config.PortalConfig) Repository {
	size := cfg.CacheSize
	if size <= 0 {
		size = 64
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &implRepository{
		session: session,
		l:       l,
		cfg:     cfg,
		woCache: expirable.NewLRU[string, model.WorkOrder](size, nil, ttl),
		now:     time.Now,
	}
}

func (r *implRepository) SaveDiagnostic(name string) (string, error) {
	return r.session.SaveDiagnostic(name)
}
