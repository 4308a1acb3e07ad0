package route

import (
	"sync"

	"github.com/Meesho/BharatMLStack/price-range/internal/pricerange/controller"
	"github.com/Meesho/BharatMLStack/price-range/pkg/httpframework"
)

var initPriceRangeRouterOnce sync.Once

func Init(priceRange controller.PriceRange) {
	initPriceRangeRouterOnce.Do(func() {
		router := httpframework.Instance()
		router.GET("/health", priceRange.Health)

		mobile := router.Group("/mobile")
		{
			v1 := mobile.Group("/v1")
			{
				v1.GET("/price_range", priceRange.GetPriceRange)
				v1.POST("/price_range", priceRange.PostPriceRange)

				models := v1.Group("/models")
				{
					models.GET("", priceRange.ListModels)
					models.GET("/:model_id/metrics", priceRange.GetMetrics)
				}
			}
		}
	})
}
