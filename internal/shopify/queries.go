package shopify

// GraphQL documents sent to the Storefront API. List fields carry
// explicit first: arguments at the API's page-size ceiling so callers
// never deal with cursors.

const imageFragment = `
fragment image on Image {
  url
  altText
  width
  height
}
`

const seoFragment = `
fragment seo on SEO {
  title
  description
}
`

const productFragment = `
fragment product on Product {
  id
  handle
  availableForSale
  title
  description
  descriptionHtml
  options {
    id
    name
    values
  }
  priceRange {
    maxVariantPrice {
      amount
      currencyCode
    }
    minVariantPrice {
      amount
      currencyCode
    }
  }
  variants(first: 250) {
    edges {
      node {
        id
        title
        availableForSale
        selectedOptions {
          name
          value
        }
        price {
          amount
          currencyCode
        }
      }
    }
  }
  featuredImage {
    ...image
  }
  images(first: 20) {
    edges {
      node {
        ...image
      }
    }
  }
  seo {
    ...seo
  }
  tags
  updatedAt
}
` + imageFragment + seoFragment

const cartFragment = `
fragment cart on Cart {
  id
  checkoutUrl
  cost {
    subtotalAmount {
      amount
      currencyCode
    }
    totalAmount {
      amount
      currencyCode
    }
    totalTaxAmount {
      amount
      currencyCode
    }
  }
  lines(first: 100) {
    edges {
      node {
        id
        quantity
        cost {
          totalAmount {
            amount
            currencyCode
          }
        }
        merchandise {
          ... on ProductVariant {
            id
            title
            selectedOptions {
              name
              value
            }
            product {
              id
              handle
              title
              featuredImage {
                ...image
              }
            }
          }
        }
      }
    }
  }
  totalQuantity
}
` + imageFragment

const getProductQuery = `
query getProduct($handle: String!) {
  product(handle: $handle) {
    ...product
  }
}
` + productFragment

const getProductsQuery = `
query getProducts($query: String, $sortKey: ProductSortKeys, $reverse: Boolean) {
  products(first: 100, query: $query, sortKey: $sortKey, reverse: $reverse) {
    edges {
      node {
        ...product
      }
    }
  }
}
` + productFragment

const getProductRecommendationsQuery = `
query getProductRecommendations($productId: ID!) {
  productRecommendations(productId: $productId) {
    ...product
  }
}
` + productFragment

const getCollectionQuery = `
query getCollection($handle: String!) {
  collection(handle: $handle) {
    handle
    title
    description
    image {
      ...image
    }
    seo {
      ...seo
    }
    updatedAt
  }
}
` + imageFragment + seoFragment

const getCollectionsQuery = `
query getCollections {
  collections(first: 100, sortKey: TITLE) {
    edges {
      node {
        handle
        title
        description
        image {
          ...image
        }
        seo {
          ...seo
        }
        updatedAt
      }
    }
  }
}
` + imageFragment + seoFragment

const getCollectionProductsQuery = `
query getCollectionProducts($handle: String!, $sortKey: ProductCollectionSortKeys, $reverse: Boolean) {
  collection(handle: $handle) {
    products(first: 100, sortKey: $sortKey, reverse: $reverse) {
      edges {
        node {
          ...product
        }
      }
    }
  }
}
` + productFragment

const getMenuQuery = `
query getMenu($handle: String!) {
  menu(handle: $handle) {
    items {
      title
      url
    }
  }
}
`

const getPageQuery = `
query getPage($handle: String!) {
  pageByHandle(handle: $handle) {
    id
    handle
    title
    body
    bodySummary
    seo {
      ...seo
    }
    createdAt
    updatedAt
  }
}
` + seoFragment

const getPagesQuery = `
query getPages {
  pages(first: 100) {
    edges {
      node {
        id
        handle
        title
        body
        bodySummary
        seo {
          ...seo
        }
        createdAt
        updatedAt
      }
    }
  }
}
` + seoFragment

const getCartQuery = `
query getCart($cartId: ID!) {
  cart(id: $cartId) {
    ...cart
  }
}
` + cartFragment

const createCartMutation = `
mutation createCart($lineItems: [CartLineInput!]) {
  cartCreate(input: { lines: $lineItems }) {
    cart {
      ...cart
    }
  }
}
` + cartFragment

const addToCartMutation = `
mutation addToCart($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      ...cart
    }
  }
}
` + cartFragment

const editCartItemsMutation = `
mutation editCartItems($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...cart
    }
  }
}
` + cartFragment

const removeFromCartMutation = `
mutation removeFromCart($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...cart
    }
  }
}
` + cartFragment
