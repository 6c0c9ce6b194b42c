package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/returnhub/backend/internal/interfaces/http/router"
)

// ReturnsRoutes creates the route group for the return unit lifecycle
func ReturnsRoutes(units *UnitHandler, grading *GradingHandler, groups *GroupHandler, batches *BatchHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("returns", "/returns")
	group.Use(authMiddleware)

	// Unit registration and lifecycle
	group.POST("/units", units.Create)
	group.GET("/units", units.List)
	group.GET("/units/status-summary", units.StatusSummary)
	group.GET("/units/:id", units.Get)
	group.PUT("/units/:id", units.Update)
	group.POST("/units/:id/advance", units.Advance)
	group.POST("/units/:id/reverse", units.Reverse)
	group.POST("/units/:id/settle", units.Settle)
	group.DELETE("/units/:id", units.Delete)

	// QC grading and splits
	group.POST("/units/:id/grade", grading.Grade)
	group.POST("/units/:id/split", grading.Split)

	// Grouped view keyed by document number, collection order or NCR number
	group.GET("/groups", groups.List)
	group.POST("/groups/:key/grade", grading.GradeGroup)
	group.DELETE("/groups/:key", groups.Delete)

	// Document batches
	group.POST("/batches/preview", batches.Preview)
	group.POST("/batches", batches.Commit)

	return group
}

// LedgerRoutes creates the route group for the derived inventory ledger
func LedgerRoutes(ledger *LedgerHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("ledger", "/ledger")
	group.Use(authMiddleware)

	group.GET("/movements", ledger.Movements)
	group.GET("/on-hand", ledger.OnHand)
	group.GET("/stock", ledger.StockSummary)

	return group
}

// AuthRoutes creates the route group for operator login. Deliberately
// outside the JWT middleware: these endpoints mint the tokens.
func AuthRoutes(authHandler *AuthHandler) *router.DomainGroup {
	group := router.NewDomainGroup("auth", "/auth")

	group.POST("/login", authHandler.Login)
	group.POST("/refresh", authHandler.Refresh)

	return group
}

// SystemRoutes creates the route group for system endpoints
func SystemRoutes(system *SystemHandler) *router.DomainGroup {
	group := router.NewDomainGroup("system", "/system")

	group.GET("/info", system.GetSystemInfo)
	group.GET("/ping", system.Ping)

	return group
}
