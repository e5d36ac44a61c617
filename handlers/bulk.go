package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// BulkEnrollMembers enrolls members from an uploaded .xlsx sheet. Column A is
// the card number, column B an optional rule id; rows without one use the
// business default rule. Each row is reported individually, a bad row does not
// abort the batch.
func BulkEnrollMembers(c *gin.Context) {
	bizID := businessID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "An .xlsx file upload named 'file' is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Uploaded file is not a valid .xlsx workbook"})
		return
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Workbook contains no sheets"})
		return
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to read workbook rows"})
		return
	}

	var defaultRuleID int64
	if err := DB.QueryRow(`SELECT id FROM reward_rules WHERE business_id = $1 AND is_default`, bizID).Scan(&defaultRuleID); err != nil {
		defaultRuleID = 0
	}

	var enrolled int
	var failures []gin.H
	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "card_number") {
			// header row
			continue
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		cardNumber := strings.TrimSpace(row[0])

		ruleID := defaultRuleID
		if len(row) > 1 && strings.TrimSpace(row[1]) != "" {
			parsed, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
			if err != nil {
				failures = append(failures, gin.H{"row": i + 1, "card_number": cardNumber, "error": "invalid rule id"})
				continue
			}
			ruleID = parsed
		}
		if ruleID == 0 {
			failures = append(failures, gin.H{"row": i + 1, "card_number": cardNumber, "error": "no rule id given and no default rule configured"})
			continue
		}

		primaryCard, err := resolvePrimaryCard(cardNumber, bizID)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Card resolution service unreachable. Try again later."})
			return
		}

		if _, _, errMsg := enrollMember(DB, bizID, primaryCard, ruleID); errMsg != "" {
			failures = append(failures, gin.H{"row": i + 1, "card_number": cardNumber, "error": errMsg})
			continue
		}
		if Notifier != nil {
			Notifier.MemberEnrolled(primaryCard, bizID)
		}
		enrolled++
	}
	if failures == nil {
		failures = []gin.H{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"enrolled": enrolled,
		"failed":   len(failures),
		"failures": failures,
	})
}
