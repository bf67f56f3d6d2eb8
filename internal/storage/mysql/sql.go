package mysql

const insertReviewSQL = `
INSERT INTO reviews
  (review_id, username, rating, review_text, review_date, source, category, item_name)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const selectReviewsSQL = `
SELECT review_id, username, rating, review_text, review_date, source, category, item_name
FROM reviews
`

// Empty category matches every row.
const listReviewsSQL = selectReviewsSQL + `
WHERE (? = '' OR category = ?)
ORDER BY seq
LIMIT ? OFFSET ?
`

const countByCategorySQL = `
SELECT category, COUNT(*) FROM reviews GROUP BY category
`
