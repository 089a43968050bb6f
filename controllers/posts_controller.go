package controllers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"

	"Pulse/models"
	"Pulse/utils/fileformat"
	httpctx "Pulse/utils/httpctx"

	aws2 "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// postInput carries the author-editable fields of a post. It binds from
// JSON bodies and from url-encoded or multipart forms alike.
type postInput struct {
	Text    string `json:"text" form:"text"`
	GroupID uint   `json:"group_id" form:"group_id"`
}

func bindPostInput(c *gin.Context) (postInput, error) {
	input := postInput{}
	var err error
	if c.ContentType() == "application/json" {
		err = c.ShouldBindJSON(&input)
	} else {
		err = c.ShouldBind(&input)
	}
	return input, err
}

// PostDetail shows a single post with its comments, newest comment first.
func (server *Server) PostDetail(c *gin.Context) {
	pid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	post, err := models.FindPostByID(server.DB, uint(pid))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading post"})
		return
	}

	comments, err := models.GetComments(server.DB, post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": toPostResponse(post),
		"comments": toCommentListResponse(comments),
	})
}

// NewPost returns the create-form context: the group choices the author can
// file the post under.
func (server *Server) NewPost(c *gin.Context) {
	groups, err := models.FindAllGroups(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading groups"})
		return
	}

	groupList := make([]map[string]interface{}, 0, len(groups))
	for i := range groups {
		choice := toGroupResponse(&groups[i])
		choice["id"] = groups[i].ID
		groupList = append(groupList, choice)
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"groups": groupList,
	})
}

// CreatePost publishes a new post as the authenticated viewer. The route is
// login-guarded; the author is always the viewer, never client input.
func (server *Server) CreatePost(c *gin.Context) {
	viewerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/auth/login/?next="+c.Request.URL.Path)
		return
	}

	input, err := bindPostInput(c)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot read submitted form",
		})
		return
	}

	post := models.Post{
		Text:     input.Text,
		AuthorID: viewerID,
	}
	post.Prepare()

	errorMessages := post.Validate()
	if input.GroupID != 0 {
		gid := input.GroupID
		if err := server.DB.Select("id").First(&models.Group{}, gid).Error; err != nil {
			errorMessages["Invalid_group"] = "Group does not exist"
		} else {
			post.GroupID = &gid
		}
	}
	if len(errorMessages) > 0 {
		// Re-render the form: errors attached, input preserved.
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
			"form":   gin.H{"text": input.Text, "group_id": input.GroupID},
		})
		return
	}

	if imagePath, err := server.uploadPostImage(c); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	} else if imagePath != "" {
		post.ImagePath = imagePath
	}

	if _, err := post.SavePost(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to save post"})
		return
	}

	author, err := models.FindUserByID(server.DB, viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading user"})
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", author.Username))
}

// EditPostForm returns the edit-form context for the post's author. Anyone
// else is sent to the read-only detail view, not given an error.
func (server *Server) EditPostForm(c *gin.Context) {
	post, redirected := server.loadOwnPost(c)
	if redirected {
		return
	}

	groups, err := models.FindAllGroups(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading groups"})
		return
	}
	groupList := make([]map[string]interface{}, 0, len(groups))
	for i := range groups {
		choice := toGroupResponse(&groups[i])
		choice["id"] = groups[i].ID
		groupList = append(groupList, choice)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"is_edit": true,
		"form": gin.H{
			"text":       post.Text,
			"group_id":   post.GroupID,
			"image_path": post.ImagePath,
		},
		"groups": groupList,
	})
}

// EditPost updates text, group and image of the viewer's own post. The
// creation timestamp is never touched. Non-authors are redirected to the
// detail view with the post unchanged.
func (server *Server) EditPost(c *gin.Context) {
	post, redirected := server.loadOwnPost(c)
	if redirected {
		return
	}

	input, err := bindPostInput(c)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot read submitted form",
		})
		return
	}

	updated := models.Post{
		ID:        post.ID,
		Text:      input.Text,
		AuthorID:  post.AuthorID,
		ImagePath: post.ImagePath,
	}
	updated.Prepare()

	errorMessages := updated.Validate()
	if input.GroupID != 0 {
		gid := input.GroupID
		if err := server.DB.Select("id").First(&models.Group{}, gid).Error; err != nil {
			errorMessages["Invalid_group"] = "Group does not exist"
		} else {
			updated.GroupID = &gid
		}
	}
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
			"form":   gin.H{"text": input.Text, "group_id": input.GroupID},
		})
		return
	}

	if imagePath, err := server.uploadPostImage(c); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	} else if imagePath != "" {
		updated.ImagePath = imagePath
	}

	if _, err := updated.UpdateAPost(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to update post"})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
}

// loadOwnPost resolves the post in the URL and enforces the author-only
// rule. When the viewer is not the author it issues the redirect to the
// detail view and reports redirected=true.
func (server *Server) loadOwnPost(c *gin.Context) (*models.Post, bool) {
	viewerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/auth/login/?next="+c.Request.URL.Path)
		return nil, true
	}

	pid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return nil, true
	}

	post, err := models.FindPostByID(server.DB, uint(pid))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return nil, true
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading post"})
		return nil, true
	}

	if post.AuthorID != viewerID {
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
		return nil, true
	}
	return post, false
}

// uploadPostImage stores the optional image attachment in S3 and returns its
// public URL. No file on the form, or no bucket configured, is not an error:
// the post simply has no image.
func (server *Server) uploadPostImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	rawBucket := os.Getenv("S3_BUCKET")
	bucketName := strings.SplitN(rawBucket, "/", 2)[0]
	if bucketName == "" {
		log.Printf("S3_BUCKET not set; skipping image upload for %q", file.Filename)
		return "", nil
	}

	buf, fileType, err := readImageUpload(file)
	if err != nil {
		return "", err
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey := os.Getenv("AWS_ACCESS_KEY_ID"); accessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, os.Getenv("AWS_SECRET_ACCESS_KEY"), ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), loadOpts...)
	if err != nil {
		log.Printf("AWS config load error: %v", err)
		return "", err
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	key := "PostImages/" + fileformat.UniqueFormat(file.Filename)
	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:        aws2.String(bucketName),
		Key:           aws2.String(key),
		Body:          bytes.NewReader(buf),
		ContentLength: aws2.Int64(int64(len(buf))),
		ContentType:   aws2.String(fileType),
	})
	if err != nil {
		log.Printf("S3 upload failed: %v", err)
		return "", err
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, region, key), nil
}

func readImageUpload(file *multipart.FileHeader) ([]byte, string, error) {
	if file.Size > 512_000 {
		return nil, "", errors.New("file too large (<500KB)")
	}

	f, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	buf := make([]byte, file.Size)
	if _, err := f.Read(buf); err != nil {
		return nil, "", err
	}

	fileType := http.DetectContentType(buf)
	if !strings.HasPrefix(fileType, "image/") {
		return nil, "", errors.New("not an image")
	}
	return buf, fileType, nil
}
