package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every API route on the router. Shared between main and
// the handler tests.
func RegisterRoutes(router *gin.Engine) {
	// Business-facing routes, authenticated against the SSO server
	reward := router.Group("/reward", BusinessAuthMiddleware())
	{
		reward.GET("/business-reward-rules/", GetRewardRules)
		reward.POST("/business-reward-rules/", CreateRewardRule)
		reward.POST("/reward-rule/:id/set-default/", SetDefaultRewardRule)
		reward.GET("/reward-rules/:id/details/", GetRewardRule)
		reward.PUT("/reward-rules/:id/details/", UpdateRewardRule)
		reward.DELETE("/reward-rules/:id/details/", DeleteRewardRule)

		reward.POST("/new-member/", EnrollMember)
		reward.GET("/member/:card_number", GetMemberByCard)
		reward.PUT("/member/:id/status", UpdateMemberStatus)
		reward.GET("/check-member-active/", CheckMemberActive)
		reward.GET("/member-active/by-mobile-no/", CheckMemberActiveByMobile)
		reward.POST("/members/bulk-upload/", BulkEnrollMembers)

		reward.POST("/transactions/", RecordTransaction)
		reward.POST("/redeem-points/", RedeemPoints)
		reward.GET("/transactions/:card_number", GetCardTransactions)
		reward.GET("/cumulative-points/:card_number", GetCardLedger)

		reward.GET("/business-card/", GetCardDesign)
		reward.POST("/business-card/", CreateCardDesign)
		reward.PUT("/business-card/:id", UpdateCardDesign)

		reward.GET("/join-requests/", GetJoinRequests)
		reward.PUT("/join-requests/:id", DecideJoinRequest)
	}

	// Member-facing routes
	member := router.Group("/member/reward", MemberAuthMiddleware())
	{
		member.GET("/business-store/", GetBusinessStores)
		member.GET("/business-store/details/:biz_id", GetBusinessStoreDetails)
		member.GET("/transactions/:biz_id", GetMemberTransactions)
		member.GET("/transaction/:biz_id/:transaction_id", GetMemberTransaction)
		member.POST("/member/scan-qr/", ScanBusinessQR)
		member.GET("/member-active/", CheckMemberActiveForBusiness)
	}

	// Public feedback survey, no authentication
	router.POST("/survey/feedback/", SubmitSurvey)

	// Staff dashboard routes
	admin := router.Group("/admin")
	{
		admin.POST("/signup", StaffSignup)
		admin.POST("/login", StaffLogin)
		admin.GET("/business/:business_id/members", StaffAuthMiddleware(), GetBusinessMembers)
	}
}
