package controllers

import "Pulse/models"

func toAuthorResponse(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":       u.PublicID,
		"username": u.Username,
	}
}

func toGroupResponse(g *models.Group) map[string]interface{} {
	return map[string]interface{}{
		"title":       g.Title,
		"slug":        g.Slug,
		"description": g.Description,
	}
}

func toPostResponse(p *models.Post) map[string]interface{} {
	resp := map[string]interface{}{
		"id":         p.ID,
		"public_id":  p.PublicID,
		"text":       p.Text,
		"author":     toAuthorResponse(&p.Author),
		"image_path": p.ImagePath,
		"created_at": p.CreatedAt,
	}
	if p.Group != nil {
		resp["group"] = toGroupResponse(p.Group)
	} else {
		resp["group"] = nil
	}
	return resp
}

func toPostListResponse(posts []models.Post) []map[string]interface{} {
	response := make([]map[string]interface{}, 0, len(posts))
	for i := range posts {
		response = append(response, toPostResponse(&posts[i]))
	}
	return response
}

func toCommentResponse(c *models.Comment) map[string]interface{} {
	return map[string]interface{}{
		"id":         c.ID,
		"public_id":  c.PublicID,
		"post_id":    c.PostID,
		"author":     toAuthorResponse(&c.Author),
		"text":       c.Text,
		"created_at": c.CreatedAt,
	}
}

func toCommentListResponse(comments []models.Comment) []map[string]interface{} {
	response := make([]map[string]interface{}, 0, len(comments))
	for i := range comments {
		response = append(response, toCommentResponse(&comments[i]))
	}
	return response
}
