// Package memedex embeds the memedex meme catalog in a Go program: records
// are stored in SQLite, Redis or memory and searched with the memedex query
// language.
//
//	client, _ := memedex.Open(ctx, memedex.WithSQLite("memes.db"))
//	defer client.Close()
//
//	m, _ := client.Create(ctx, memedex.NewMeme{
//	    Path:     "cats/grumpy.jpg",
//	    Filename: "grumpy.jpg",
//	    Category: "cats",
//	    Text:     "no",
//	    Keywords: []string{"grumpy", "cat"},
//	})
//	results, _ := client.Search(ctx, `keywords:cat NOT "happy"`, 20)
//
// Query syntax: adjacent terms are ANDed, OR and NOT are operators,
// field:term scopes to text, description, keywords or filename, "a b" is a
// phrase, pre* a prefix and NEAR(a b, N) allows at most N words between terms.
package memedex
