package controller

import (
	"net/http"

	"github.com/Meesho/BharatMLStack/price-range/internal/pricerange/handler"
	"github.com/Meesho/BharatMLStack/price-range/pkg/api"
	"github.com/gin-gonic/gin"
)

const healthMessage = "Application is up!!!"

type PriceRange interface {
	GetPriceRange(ctx *gin.Context)
	PostPriceRange(ctx *gin.Context)
	ListModels(ctx *gin.Context)
	GetMetrics(ctx *gin.Context)
	Health(ctx *gin.Context)
}

type V1 struct {
	PriceRange handler.PriceRange
}

func NewPriceRangeController(priceRange handler.PriceRange) PriceRange {
	return &V1{PriceRange: priceRange}
}

func (c *V1) GetPriceRange(ctx *gin.Context) {
	var request handler.PredictRequest
	if err := ctx.ShouldBindQuery(&request); err != nil {
		abortWithError(ctx, api.NewBadRequestError(err.Error()))
		return
	}
	c.predict(ctx, request)
}

// PostPriceRange accepts a JSON body, omitted fields keep their defaults
func (c *V1) PostPriceRange(ctx *gin.Context) {
	request := handler.DefaultPredictRequest()
	if err := ctx.ShouldBindJSON(&request); err != nil {
		abortWithError(ctx, api.NewBadRequestError(err.Error()))
		return
	}
	c.predict(ctx, request)
}

func (c *V1) predict(ctx *gin.Context, request handler.PredictRequest) {
	response, err := c.PriceRange.Predict(ctx.Request.Context(), request)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

func (c *V1) ListModels(ctx *gin.Context) {
	response, err := c.PriceRange.ListModels(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

func (c *V1) GetMetrics(ctx *gin.Context) {
	response, err := c.PriceRange.GetMetrics(ctx.Request.Context(), ctx.Param("model_id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

func (c *V1) Health(ctx *gin.Context) {
	ctx.String(http.StatusOK, healthMessage)
}

func abortWithError(ctx *gin.Context, err error) {
	ctx.AbortWithStatusJSON(api.StatusCode(err), handler.ErrorResponse{Error: err.Error()})
}
