package dto

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Page 1 起始的分页参数
type Page struct {
	Number  int
	PerPage int
}

// ParsePage 从查询串解析 page 参数，非法值一律回退到第一页
func ParsePage(c *gin.Context, perPage int) Page {
	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if perPage <= 0 {
		perPage = 10
	}
	return Page{Number: page, PerPage: perPage}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// ListResponse 构造分页列表响应。
// prev 在第一页时缺席，next 在最后一页时缺席，total 恒定存在。
func ListResponse(itemsKey string, items interface{}, basePath string, page Page, total int64) gin.H {
	resp := gin.H{
		itemsKey: items,
		"total":  total,
	}
	if page.Number > 1 {
		resp["prev"] = fmt.Sprintf("%s?page=%d", basePath, page.Number-1)
	}
	if int64(page.Offset()+page.PerPage) < total {
		resp["next"] = fmt.Sprintf("%s?page=%d", basePath, page.Number+1)
	}
	return resp
}
