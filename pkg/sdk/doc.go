// Package catalogsearch provides an embedded Go client for the catalog
// search service backed by Redis with RedisJSON.
//
// The client wires the catalog store and a search backend in-process, so
// applications can rank products without running the HTTP server:
//
//	client, _ := catalogsearch.New(ctx, catalogsearch.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	client.Products().Upsert(ctx, catalogsearch.Product{
//	    ID: "sku-1", Name: "Wireless Headphones", Category: "electronics", Price: 199.99,
//	})
//
//	page, _ := client.Search(ctx, catalogsearch.SearchQuery{Text: "headfones"})
//	for _, r := range page.Results {
//	    fmt.Println(r.Product.Name, r.Score)
//	}
//
// Two search backends are available: the default in-process relevance
// scorer, and a bleve full-text index enabled with WithBleve.
package catalogsearch
